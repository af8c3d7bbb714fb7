// Package token はJWTの発行と検証を提供する。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/todoman/internal/model"
)

// minSecretLength はHS256の鍵として許容する最小バイト数。
const minSecretLength = 32

// ErrInvalidToken は署名不正・期限切れ・形式不正など、
// トークンが受理できないあらゆる場合に返すセンチネルエラー。
// 呼び出し側はこれを「未認証」として扱い、クラッシュさせてはならない。
var ErrInvalidToken = errors.New("token: invalid token")

// Claims はトークンに埋め込む識別クレームを表す。
// 標準のidentityクレーム名（sub, email, given_name, surname）を使用する。
type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"given_name"`
	LastName  string `json:"surname"`
	jwt.RegisteredClaims
}

// ServiceConfig はトークンサービスの設定。
type ServiceConfig struct {
	Secret   string
	Expiry   time.Duration
	Issuer   string // 空のときは発行・検証とも無効
	Audience string // 空のときは発行・検証とも無効
}

// Service はJWTの発行と検証を行う。
type Service struct {
	secret   []byte
	expiry   time.Duration
	issuer   string
	audience string
}

// NewService はServiceを生成する。
// 鍵が未設定またはHS256の最小鍵長に満たない場合はエラーを返す（フェイルクローズ）。
func NewService(cfg ServiceConfig) (*Service, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", minSecretLength, len(cfg.Secret))
	}

	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &Service{
		secret:   []byte(cfg.Secret),
		expiry:   expiry,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

// Issue は識別情報を埋め込んだ署名付きトークンを発行する。
// 有効期限は固定ウィンドウ（デフォルト24時間）。
func (s *Service) Issue(identity *model.Identity) (string, error) {
	now := time.Now()

	claims := &Claims{
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	if s.issuer != "" {
		claims.Issuer = s.issuer
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate はトークンの署名・有効期限・発行者/受信者制約を検証し、
// 埋め込まれた識別情報を返す。
// いかなる検証失敗もErrInvalidTokenとして返す（詳細は漏らさない）。
func (s *Service) Validate(raw string) (*model.Identity, error) {
	opts := []jwt.ParserOption{
		// alg none やRS256へのすり替えを拒否する
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &model.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
