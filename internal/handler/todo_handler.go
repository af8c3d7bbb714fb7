package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// TodoServiceInterface はTodoハンドラーが必要とするサービスインターフェース。
// 全操作がuserIDでスコープされ、他ユーザーのTodoには到達できない。
type TodoServiceInterface interface {
	List(ctx context.Context, userID string) ([]*model.Todo, error)
	Create(ctx context.Context, userID, text string) (*model.Todo, error)
	Get(ctx context.Context, userID, todoID string) (*model.Todo, error)
	Update(ctx context.Context, userID, todoID, text string, completed bool) (*model.Todo, error)
	Toggle(ctx context.Context, userID, todoID string) (*model.Todo, error)
	Delete(ctx context.Context, userID, todoID string) error
}

// TodoMetricsRecorder はTodoイベントのメトリクス記録インターフェース。
type TodoMetricsRecorder interface {
	RecordTodoCreated()
	RecordTodoCompleted()
}

// TodoHandler はTodo管理のHTTPハンドラー。
type TodoHandler struct {
	service TodoServiceInterface
	metrics TodoMetricsRecorder
}

// NewTodoHandler はTodoHandlerを生成する。
// metricsがnilの場合はメトリクス記録をスキップする。
func NewTodoHandler(service TodoServiceInterface, metrics TodoMetricsRecorder) *TodoHandler {
	return &TodoHandler{
		service: service,
		metrics: metrics,
	}
}

// createTodoRequest はTodo作成リクエストのボディ。
type createTodoRequest struct {
	Text string `json:"text"`
}

// updateTodoRequest はTodo更新リクエストのボディ。
type updateTodoRequest struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// List は認証済みユーザーのTodo一覧を返す。
// GET /api/todos
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	todos, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// Todoが無くてもnullではなく空配列を返す
	responses := make([]todoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, toTodoResponse(todo))
	}

	writeJSONResponse(w, http.StatusOK, responses)
}

// Create は新しいTodoを作成する。
// POST /api/todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	todo, err := h.service.Create(r.Context(), userID, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTodoCreated()
	}

	writeJSONResponse(w, http.StatusCreated, toTodoResponse(todo))
}

// Get はTodo単体を取得する。
// GET /api/todos/{todoID}
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	todoID := chi.URLParam(r, "todoID")

	todo, err := h.service.Get(r.Context(), userID, todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTodoResponse(todo))
}

// Update はTodoの本文と完了状態を更新する。
// PUT /api/todos/{todoID}
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	todoID := chi.URLParam(r, "todoID")

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	todo, err := h.service.Update(r.Context(), userID, todoID, req.Text, req.Completed)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTodoResponse(todo))
}

// Toggle はTodoの完了状態を反転する。
// PUT /api/todos/{todoID}/toggle
func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	todoID := chi.URLParam(r, "todoID")

	todo, err := h.service.Toggle(r.Context(), userID, todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil && todo.Completed {
		h.metrics.RecordTodoCompleted()
	}

	writeJSONResponse(w, http.StatusOK, toTodoResponse(todo))
}

// Delete はTodoを削除する。
// DELETE /api/todos/{todoID}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	todoID := chi.URLParam(r, "todoID")

	if err := h.service.Delete(r.Context(), userID, todoID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
