// Package todo はTodo管理のドメインロジックを提供する。
package todo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// TextSanitizer はTodo本文のサニタイズインターフェース。
// security.TextSanitizerServiceの部分集合として定義する。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// Service はTodo管理のサービス層。
// 全操作で呼び出しユーザーのIDを必須フィルタとし、他ユーザーのTodoは
// 存在の有無にかかわらずTODO_NOT_FOUNDとして扱う。
type Service struct {
	todoRepo  repository.TodoRepository
	sanitizer TextSanitizer
}

// NewService はServiceを生成する。
func NewService(todoRepo repository.TodoRepository, sanitizer TextSanitizer) *Service {
	return &Service{
		todoRepo:  todoRepo,
		sanitizer: sanitizer,
	}
}

// List はユーザーのTodo一覧を作成日時の新しい順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Todo, error) {
	todos, err := s.todoRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Create は新規Todoを作成する。
// 本文はサニタイズ後に検証する（空・1000文字超は拒否）。
func (s *Service) Create(ctx context.Context, userID, text string) (*model.Todo, error) {
	cleaned, err := s.validateText(text)
	if err != nil {
		return nil, err
	}

	todo := &model.Todo{
		ID:        uuid.New().String(),
		Text:      cleaned,
		Completed: false,
		CreatedAt: time.Now(),
		UserID:    userID,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// Get は指定IDのTodoを返す。
// 存在しない、または他ユーザー所有の場合はTODO_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByOwner(ctx, todoID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError(todoID)
	}
	return todo, nil
}

// Update はtextとcompletedを更新し、updated_atを記録する。
func (s *Service) Update(ctx context.Context, userID, todoID, text string, completed bool) (*model.Todo, error) {
	cleaned, err := s.validateText(text)
	if err != nil {
		return nil, err
	}

	todo, err := s.todoRepo.Update(ctx, todoID, userID, cleaned, completed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NewTodoNotFoundError(todoID)
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// Toggle はcompletedを反転し、updated_atを記録する。
func (s *Service) Toggle(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	todo, err := s.todoRepo.Toggle(ctx, todoID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NewTodoNotFoundError(todoID)
		}
		return nil, fmt.Errorf("failed to toggle todo: %w", err)
	}

	return todo, nil
}

// Delete は指定IDのTodoを削除する。
func (s *Service) Delete(ctx context.Context, userID, todoID string) error {
	if err := s.todoRepo.Delete(ctx, todoID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewTodoNotFoundError(todoID)
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// validateText は本文をサニタイズして検証する。
// 作成時と更新時の両方で同じ規則を適用する。
func (s *Service) validateText(text string) (string, error) {
	cleaned := text
	if s.sanitizer != nil {
		cleaned = s.sanitizer.Sanitize(text)
	}

	if cleaned == "" {
		return "", model.NewValidationError("text", "必須項目です")
	}
	if len([]rune(cleaned)) > model.TodoTextMaxLength {
		return "", model.NewValidationError("text", fmt.Sprintf("%d文字以内で入力してください", model.TodoTextMaxLength))
	}

	return cleaned, nil
}
