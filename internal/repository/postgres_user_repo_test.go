package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Userモデルのフィールドが正しく構築されることを検証
func TestPostgresUserRepo_UserModel_Fields(t *testing.T) {
	now := time.Now()
	user := &model.User{
		ID:           "user-id-1",
		Email:        "test@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:    "太郎",
		LastName:     "山田",
		CreatedAt:    now,
	}

	if user.ID != "user-id-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-id-1")
	}
	if user.Email != "test@example.com" {
		t.Errorf("user.Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.PasswordHash == "" {
		t.Error("password hash should not be empty")
	}
}

// センチネルエラーが区別できることを検証
func TestSentinelErrors_AreDistinct(t *testing.T) {
	if ErrNotFound == ErrDuplicateEmail {
		t.Error("ErrNotFound and ErrDuplicateEmail must be distinct")
	}
	if ErrNotFound.Error() == "" || ErrDuplicateEmail.Error() == "" {
		t.Error("sentinel errors should carry messages")
	}
}
