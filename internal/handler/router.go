package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/whirl/internal/metrics"
	"github.com/hitoshi/whirl/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger            *slog.Logger
	Collector         metrics.MetricsCollector
	Gatherer          prometheus.Gatherer
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	GenerationService  GenerationServiceInterface
	ContentService     ContentServiceInterface
	PreferencesService PreferencesServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → RateLimit(General)
//
// /healthz と /metrics はレート制限の外に置く。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, statusRecorderOrNil(deps.Collector)))

	genHandler := NewGenerationHandler(deps.GenerationService, deps.Logger)
	contentHandler := NewContentHandler(deps.ContentService)
	prefsHandler := NewPreferencesHandler(deps.PreferencesService)

	// --- 運用エンドポイント ---

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// POST /api/generate-content - 生成専用レート制限を追加
		r.With(deps.RateLimiter.GenerationMiddleware()).Post("/api/generate-content", genHandler.Generate)

		// コンテンツボード
		r.Route("/api/content", func(r chi.Router) {
			r.Post("/save", contentHandler.Save)
			r.Get("/{userID}", contentHandler.Load)
		})

		// ブランド設定
		r.Route("/api/brand-preferences", func(r chi.Router) {
			r.Post("/", prefsHandler.Save)
			r.Get("/", prefsHandler.List)

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", prefsHandler.Get)
				r.Delete("/", prefsHandler.Delete)
			})
		})
	})

	return r
}

// statusRecorderOrNil はnilインターフェースをそのままnilとして渡すためのヘルパー。
func statusRecorderOrNil(collector metrics.MetricsCollector) middleware.StatusRecorder {
	if collector == nil {
		return nil
	}
	return collector
}
