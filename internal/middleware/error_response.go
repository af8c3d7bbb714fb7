package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/todoman/internal/model"
)

// WriteErrorResponse は統一形式のエラーレスポンスをJSONで書き込む。
// 全てのエラーレスポンスはmodel.APIErrorの形式に従う。
func WriteErrorResponse(w http.ResponseWriter, status int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// WriteInternalServerError は詳細を漏らさない500エラーレスポンスを書き込む。
// 原因となったエラーはログにのみ出力する。
func WriteInternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}
