// Package auth は登録・ログインのクレデンシャルフローを提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

const (
	minPasswordLength = 8
	// bcryptは72バイトを超える入力を受け付けない
	maxPasswordLength = 72
	maxEmailLength    = 255
	maxNameLength     = 100
)

// TokenIssuer はトークン発行のインターフェース。
// token.Serviceの部分集合として定義する。
type TokenIssuer interface {
	Issue(identity *model.Identity) (string, error)
}

// Result は認証成功時のレスポンスを表す。
type Result struct {
	Token string
	User  *model.User
}

// Service は登録・ログインのビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, issuer TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// Register は新規ユーザーを登録し、トークンを発行する。
// メールアドレスが既に存在する場合はEMAIL_TAKENエラーを返す。
// パスワードはbcryptでハッシュ化して保存し、平文は保持しない。
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*Result, error) {
	email = strings.TrimSpace(email)
	if err := validateRegistration(email, password, firstName, lastName); err != nil {
		return nil, err
	}

	// 事前チェック。作成時の一意制約が最終的な番人となる。
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailTakenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tok, err := s.issueFor(user)
	if err != nil {
		return nil, err
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
	)

	return &Result{Token: tok, User: user}, nil
}

// Login はメールアドレスとパスワードを検証し、トークンを発行する。
// ユーザー不在とパスワード不一致は同一のエラーを返す（ユーザー列挙攻撃の防止）。
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, model.NewInvalidCredentialsError()
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	tok, err := s.issueFor(user)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return &Result{Token: tok, User: user}, nil
}

// issueFor はユーザーの識別情報からトークンを発行する。
func (s *Service) issueFor(user *model.User) (string, error) {
	tok, err := s.issuer.Issue(&model.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return tok, nil
}

// validateRegistration は登録入力を検証する。
func validateRegistration(email, password, firstName, lastName string) error {
	if email == "" {
		return model.NewValidationError("email", "必須項目です")
	}
	if len(email) > maxEmailLength {
		return model.NewValidationError("email", fmt.Sprintf("%d文字以内で入力してください", maxEmailLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.NewValidationError("email", "メールアドレスの形式が正しくありません")
	}
	if len(password) < minPasswordLength {
		return model.NewValidationError("password", fmt.Sprintf("%d文字以上で入力してください", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return model.NewValidationError("password", fmt.Sprintf("%d文字以内で入力してください", maxPasswordLength))
	}
	if len(firstName) > maxNameLength {
		return model.NewValidationError("firstName", fmt.Sprintf("%d文字以内で入力してください", maxNameLength))
	}
	if len(lastName) > maxNameLength {
		return model.NewValidationError("lastName", fmt.Sprintf("%d文字以内で入力してください", maxNameLength))
	}
	return nil
}
