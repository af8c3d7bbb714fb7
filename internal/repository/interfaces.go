// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/todoman/internal/model"
)

// ErrNotFound は対象レコードが存在しない（または呼び出しユーザーが所有していない）
// 場合に返すセンチネルエラー。
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicateEmail はメールアドレスの一意制約違反を表すセンチネルエラー。
var ErrDuplicateEmail = errors.New("repository: duplicate email")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail はメールアドレスでユーザーを検索する（大文字小文字を区別しない）。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するtodosはCASCADE削除される。存在しない場合はErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}

// TodoRepository はTodoデータの永続化インターフェース。
// 全ての読み書きは所有者のユーザーIDで必ずスコープされる。
type TodoRepository interface {
	// Create はTodoを作成する。
	Create(ctx context.Context, todo *model.Todo) error

	// FindByOwner は指定IDのTodoを所有者スコープ付きで取得する。
	// 存在しない、または他ユーザー所有の場合はnilを返す。
	FindByOwner(ctx context.Context, id, userID string) (*model.Todo, error)

	// ListByUserID はユーザーのTodo一覧を作成日時の新しい順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Todo, error)

	// Update はtextとcompletedを更新しupdated_atを記録する。
	// 単一のUPDATE文で所有者スコープと更新を同時に行い、更新後のTodoを返す。
	// 対象が存在しない場合はErrNotFoundを返す。
	Update(ctx context.Context, id, userID, text string, completed bool) (*model.Todo, error)

	// Toggle はcompletedを単一のUPDATE文で反転しupdated_atを記録する。
	// 更新後のTodoを返す。対象が存在しない場合はErrNotFoundを返す。
	Toggle(ctx context.Context, id, userID string) (*model.Todo, error)

	// Delete は指定IDのTodoを所有者スコープ付きで削除する。
	// 対象が存在しない場合はErrNotFoundを返す。
	Delete(ctx context.Context, id, userID string) error
}
