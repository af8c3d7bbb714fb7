package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenValidator    middleware.TokenValidator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// サービス
	AuthService AuthServiceInterface
	TodoService TodoServiceInterface
	UserService UserServiceInterface

	// ヘルスチェックとメトリクス
	HealthChecker HealthChecker
	Metrics       *metrics.Collector
	Gatherer      prometheus.Gatherer

	// SPA静的ファイル。nilの場合は配信しない。
	StaticAssets fs.FS
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// 認証ルート（/api/auth/*）はIP単位のレート制限のみを適用し、
// それ以外の/api/*はBearerトークン認証とユーザー単位のレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}

	// nilの*metrics.Collectorを非nilインターフェースとして渡さないためのガード
	var authMetrics AuthMetricsRecorder
	var todoMetrics TodoMetricsRecorder
	if deps.Metrics != nil {
		authMetrics = deps.Metrics
		todoMetrics = deps.Metrics
	}

	authHandler := NewAuthHandler(deps.AuthService, authMetrics)
	todoHandler := NewTodoHandler(deps.TodoService, todoMetrics)
	userHandler := NewUserHandler(deps.UserService)
	healthHandler := NewHealthHandler(deps.HealthChecker)

	// --- 認証不要のルート ---

	// 登録・ログイン（IP単位のレート制限でパスワード総当たりを抑止）
	r.Route("/api/auth", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.AuthEndpointMiddleware())
		}
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// ヘルスチェック
	r.Get("/api/health", healthHandler.Check)

	// Prometheusスクレイプ
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenValidator))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// Todo管理
		r.Route("/api/todos", func(r chi.Router) {
			r.Get("/", todoHandler.List)
			r.Post("/", todoHandler.Create)

			r.Route("/{todoID}", func(r chi.Router) {
				r.Get("/", todoHandler.Get)
				r.Put("/", todoHandler.Update)
				r.Delete("/", todoHandler.Delete)
				r.Put("/toggle", todoHandler.Toggle)
			})
		})

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", userHandler.Me)
			r.Delete("/me", userHandler.Withdraw)
		})
	})

	// SPA静的ファイル（APIルートにマッチしない全パス）
	if deps.StaticAssets != nil {
		static := NewStaticHandler(deps.StaticAssets)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			// 未定義のAPIパスはSPAにフォールバックさせない
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
					Code:     "NOT_FOUND",
					Message:  "指定されたエンドポイントが見つかりません。",
					Category: "system",
					Action:   "リクエストURLを確認してください。",
				})
				return
			}
			static.ServeHTTP(w, r)
		})
	}

	return r
}
