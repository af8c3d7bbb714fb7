package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// mockUserService はUserServiceInterfaceのモック。
type mockUserService struct {
	withdrawFunc func(ctx context.Context, userID string) error
	profileFunc  func(ctx context.Context, userID string) (*model.User, error)
}

func (m *mockUserService) Withdraw(ctx context.Context, userID string) error {
	if m.withdrawFunc != nil {
		return m.withdrawFunc(ctx, userID)
	}
	return errors.New("not implemented")
}

func (m *mockUserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	if m.profileFunc != nil {
		return m.profileFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func authedUserRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := middleware.ContextWithIdentity(req.Context(), &model.Identity{UserID: "user-1"})
	return req.WithContext(ctx)
}

func TestUserHandler_Me_Success(t *testing.T) {
	service := &mockUserService{
		profileFunc: func(ctx context.Context, userID string) (*model.User, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want user-1", userID)
			}
			return testUser(), nil
		},
	}
	h := NewUserHandler(service)

	rec := httptest.NewRecorder()
	h.Me(rec, authedUserRequest(http.MethodGet, "/api/users/me"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp userResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "user-1" || resp.Email != "taro@example.com" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_Me_RequiresAuthentication(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUserHandler_Withdraw_Success(t *testing.T) {
	var gotUserID string
	service := &mockUserService{
		withdrawFunc: func(ctx context.Context, userID string) error {
			gotUserID = userID
			return nil
		},
	}
	h := NewUserHandler(service)

	rec := httptest.NewRecorder()
	h.Withdraw(rec, authedUserRequest(http.MethodDelete, "/api/users/me"))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if gotUserID != "user-1" {
		t.Errorf("userID = %q, want user-1", gotUserID)
	}
}

func TestUserHandler_Withdraw_UserNotFound(t *testing.T) {
	service := &mockUserService{
		withdrawFunc: func(ctx context.Context, userID string) error {
			return model.NewUserNotFoundError()
		},
	}
	h := NewUserHandler(service)

	rec := httptest.NewRecorder()
	h.Withdraw(rec, authedUserRequest(http.MethodDelete, "/api/users/me"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
