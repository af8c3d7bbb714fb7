// Package model はドメインモデルを定義する。
package model

import "time"

// TodoTextMaxLength はTodo本文の最大文字数。
const TodoTextMaxLength = 1000

// Todo はユーザーが所有するTodo項目を表す。
// UserIDは必ず既存ユーザーを参照し、オーナー削除時はCASCADE削除される。
type Todo struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt *time.Time
	UserID    string
}
