package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresTodoRepo はPostgreSQLを使用したTodoリポジトリ。
// 全クエリでuser_idを必須フィルタとし、ユーザー間のデータ分離を強制する。
type PostgresTodoRepo struct {
	db *sql.DB
}

// NewPostgresTodoRepo はPostgresTodoRepoを生成する。
func NewPostgresTodoRepo(db *sql.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

// Create はTodoを作成する。
func (r *PostgresTodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, text, completed, created_at, updated_at, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		todo.ID, todo.Text, todo.Completed, todo.CreatedAt, todo.UpdatedAt, todo.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	return nil
}

// FindByOwner は指定IDのTodoを所有者スコープ付きで取得する。
// 存在しない、または他ユーザー所有の場合はnilを返す。
func (r *PostgresTodoRepo) FindByOwner(ctx context.Context, id, userID string) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, text, completed, created_at, updated_at, user_id
		 FROM todos WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&todo.ID, &todo.Text, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt, &todo.UserID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	return todo, nil
}

// ListByUserID はユーザーのTodo一覧を作成日時の新しい順で返す。
func (r *PostgresTodoRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, completed, created_at, updated_at, user_id
		 FROM todos WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []*model.Todo{}
	for rows.Next() {
		todo := &model.Todo{}
		if err := rows.Scan(&todo.ID, &todo.Text, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt, &todo.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// Update はtextとcompletedを更新しupdated_atを記録する。
// 所有者スコープの判定と更新を単一のUPDATE文で行う。
func (r *PostgresTodoRepo) Update(ctx context.Context, id, userID, text string, completed bool) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE todos SET text = $1, completed = $2, updated_at = $3
		 WHERE id = $4 AND user_id = $5
		 RETURNING id, text, completed, created_at, updated_at, user_id`,
		text, completed, time.Now(), id, userID,
	).Scan(&todo.ID, &todo.Text, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt, &todo.UserID)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// Toggle はcompletedを単一のUPDATE文で反転しupdated_atを記録する。
// 読み取りと反転の間に他リクエストが割り込まない。
func (r *PostgresTodoRepo) Toggle(ctx context.Context, id, userID string) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE todos SET completed = NOT completed, updated_at = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, text, completed, created_at, updated_at, user_id`,
		time.Now(), id, userID,
	).Scan(&todo.ID, &todo.Text, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt, &todo.UserID)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle todo: %w", err)
	}

	return todo, nil
}

// Delete は指定IDのTodoを所有者スコープ付きで削除する。
func (r *PostgresTodoRepo) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// compile-time interface check
var _ TodoRepository = (*PostgresTodoRepo)(nil)
