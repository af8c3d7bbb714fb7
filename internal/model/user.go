// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashにはbcryptハッシュのみを格納し、平文パスワードは保持しない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// Identity はトークンに埋め込むユーザーの識別情報を表す。
// トークンサービスと認証ミドルウェアの間で受け渡す最小限のクレーム集合。
type Identity struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}
