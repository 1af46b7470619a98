package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/ideaboard/internal/metrics"
	"github.com/hitoshi/ideaboard/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// アイデア
	IdeaService   IdeaServiceInterface
	UploadMaxSize int64

	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	StatusRecorder    middleware.StatusRecorder

	// メトリクス公開。nilの場合は/metricsを提供しない。
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → Recovery → RequestID → Logging → HTTPMetrics → RateLimit(General)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewHTTPMetricsMiddleware(deps.StatusRecorder))
	}

	h := NewIdeaHandler(deps.IdeaService, deps.UploadMaxSize)

	// --- 運用エンドポイント（レート制限の外） ---

	r.Get("/health", HealthCheck)

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- アイデア管理 ---

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Route("/ideas", func(r chi.Router) {
			r.Get("/", h.ListIdeas)
			r.Post("/", h.CreateIdea)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/vote", h.Vote)
				r.Put("/notes", h.UpdateNotes)

				// POST /ideas/:id/files - アップロード専用レート制限を追加
				if deps.RateLimiter != nil {
					r.With(deps.RateLimiter.UploadMiddleware()).Post("/files", h.UploadFile)
				} else {
					r.Post("/files", h.UploadFile)
				}
			})
		})
	})

	return r
}
