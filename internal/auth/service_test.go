package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// --- モック ---

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	return nil
}

type mockIssuer struct {
	issueFn func(identity *model.Identity) (string, error)
}

func (m *mockIssuer) Issue(identity *model.Identity) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(identity)
	}
	return "test-token", nil
}

// --- 登録 ---

func TestService_Register_Success(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	var issuedFor *model.Identity
	issuer := &mockIssuer{
		issueFn: func(identity *model.Identity) (string, error) {
			issuedFor = identity
			return "signed-token", nil
		},
	}

	svc := NewService(repo, issuer)

	result, err := svc.Register(context.Background(), "a@b.com", "Passw0rd!", "A", "B")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if result.Token != "signed-token" {
		t.Errorf("Token = %q, want %q", result.Token, "signed-token")
	}
	if created == nil {
		t.Fatal("expected user to be persisted")
	}
	if created.ID == "" {
		t.Error("user ID should be generated")
	}
	if created.Email != "a@b.com" {
		t.Errorf("Email = %q, want %q", created.Email, "a@b.com")
	}

	// パスワードは平文で保存されないこと
	if created.PasswordHash == "Passw0rd!" {
		t.Error("password must not be stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Passw0rd!")); err != nil {
		t.Errorf("stored hash should verify against the raw password: %v", err)
	}

	// トークンには登録したプロフィールが埋め込まれること
	if issuedFor == nil || issuedFor.UserID != created.ID {
		t.Errorf("token should be issued for the created user, got %+v", issuedFor)
	}
	if issuedFor.FirstName != "A" || issuedFor.LastName != "B" {
		t.Errorf("identity names = %q %q, want A B", issuedFor.FirstName, issuedFor.LastName)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "existing", Email: email}, nil
		},
	}

	svc := NewService(repo, &mockIssuer{})

	_, err := svc.Register(context.Background(), "a@b.com", "Passw0rd!", "A", "B")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmailTaken {
		t.Errorf("Register duplicate = %v, want EMAIL_TAKEN", err)
	}
}

// 事前チェックをすり抜けた競合は一意制約違反として同じエラーになること
func TestService_Register_RaceOnUniqueIndex(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicateEmail
		},
	}

	svc := NewService(repo, &mockIssuer{})

	_, err := svc.Register(context.Background(), "a@b.com", "Passw0rd!", "A", "B")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmailTaken {
		t.Errorf("Register race = %v, want EMAIL_TAKEN", err)
	}
}

func TestService_Register_Validation(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockIssuer{})

	cases := []struct {
		name     string
		email    string
		password string
		first    string
		last     string
	}{
		{"empty email", "", "Passw0rd!", "A", "B"},
		{"invalid email format", "not-an-email", "Passw0rd!", "A", "B"},
		{"short password", "a@b.com", "short", "A", "B"},
		{"over-long password", "a@b.com", strings.Repeat("p", 73), "A", "B"},
		{"over-long first name", "a@b.com", "Passw0rd!", strings.Repeat("x", 101), "B"},
		{"over-long last name", "a@b.com", "Passw0rd!", "A", strings.Repeat("x", 101)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.email, tc.password, tc.first, tc.last)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
				t.Errorf("Register = %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

// --- ログイン ---

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func TestService_Login_Success(t *testing.T) {
	hash := hashOf(t, "Passw0rd!")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:           "user-1",
				Email:        "a@b.com",
				PasswordHash: hash,
				FirstName:    "A",
				LastName:     "B",
			}, nil
		},
	}

	svc := NewService(repo, &mockIssuer{})

	result, err := svc.Login(context.Background(), "a@b.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("expected non-empty token")
	}
	if result.User.ID != "user-1" {
		t.Errorf("User.ID = %q, want %q", result.User.ID, "user-1")
	}
}

// ユーザー不在とパスワード不一致が同一のエラーになること（ユーザー列挙攻撃の防止）
func TestService_Login_GenericRejection(t *testing.T) {
	hash := hashOf(t, "correct-password")

	cases := []struct {
		name string
		repo *mockUserRepo
	}{
		{
			name: "unknown user",
			repo: &mockUserRepo{
				findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
					return nil, nil
				},
			},
		},
		{
			name: "wrong password",
			repo: &mockUserRepo{
				findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
					return &model.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
				},
			},
		},
	}

	var messages []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.repo, &mockIssuer{})

			_, err := svc.Login(context.Background(), "a@b.com", "wrong-password")

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
				t.Fatalf("Login = %v, want INVALID_CREDENTIALS", err)
			}
			messages = append(messages, apiErr.Message)
		})
	}

	if len(messages) == 2 && messages[0] != messages[1] {
		t.Error("rejection messages must be identical for both failure modes")
	}
}

func TestService_Login_EmptyInput(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockIssuer{})

	for _, c := range []struct{ email, password string }{
		{"", "Passw0rd!"},
		{"a@b.com", ""},
	} {
		_, err := svc.Login(context.Background(), c.email, c.password)

		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
			t.Errorf("Login(%q, %q) = %v, want INVALID_CREDENTIALS", c.email, c.password, err)
		}
	}
}

// 登録したクレデンシャルで即座にログインできること
func TestService_RegisterThenLogin_RoundTrip(t *testing.T) {
	store := map[string]*model.User{}
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			store[strings.ToLower(user.Email)] = user
			return nil
		},
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return store[strings.ToLower(email)], nil
		},
	}

	svc := NewService(repo, &mockIssuer{})

	reg, err := svc.Register(context.Background(), "a@b.com", "Passw0rd!", "A", "B")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	login, err := svc.Login(context.Background(), "a@b.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("Login after register failed: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user = %q, want registered user %q", login.User.ID, reg.User.ID)
	}
}
