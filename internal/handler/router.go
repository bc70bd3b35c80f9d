package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/altaimate/internal/middleware"
	"github.com/hitoshi/altaimate/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	CORSAllowedOrigin string
	InternalAPISecret string
	TrustedProxies    string // X-Forwarded-For等を信頼するプロキシ（IP/CIDRのカンマ区切り）
	RateLimiter       *middleware.RateLimiter
	HTTPRecorder      middleware.HTTPRecorder // nilの場合はHTTPメトリクスを記録しない

	// ヘルスチェック（nilの場合はDB確認を行わない）
	HealthChecker HealthChecker

	// メトリクス公開用ハンドラー（nilの場合は/metricsを公開しない）
	MetricsHandler http.Handler

	// カタログ
	CatalogService CatalogServiceInterface

	// AI生成
	GenerationService GenerationServiceInterface
	ServerKeys        model.APIKeySet

	// ワークスペース
	WorkspaceStore WorkspaceStore
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP(信頼するプロキシのみ) → Recovery → SecurityHeaders → CORS → Logging → Metrics → RateLimit(General)
//
// AI生成とワークスペースのルートには共有シークレットの検証を追加し、
// AI生成のルートにはさらに生成専用のレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.NewTrustedRealIPMiddleware(deps.TrustedProxies, logger))
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.HTTPRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPRecorder))
	}

	healthHandler := NewHealthHandler(deps.HealthChecker, logger)
	catalogHandler := NewCatalogHandler(deps.CatalogService, logger)
	aiHandler := NewAIHandler(deps.GenerationService, deps.WorkspaceStore, deps.ServerKeys, logger)
	workspaceHandler := NewWorkspaceHandler(deps.WorkspaceStore, deps.GenerationService, logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:     "NOT_FOUND",
			Message:  "Route not found",
			Category: "validation",
			Action:   "Check the request path.",
		})
	})

	// --- レート制限の外に置くルート ---
	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/health", healthHandler.Health)
		r.Get("/api/models", aiHandler.ListModels)

		// モックCRUD
		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProjects)
			r.Post("/", catalogHandler.CreateProject)
			r.Get("/{id}", catalogHandler.GetProject)
		})
		r.Get("/api/servers", catalogHandler.ListServers)

		// --- 共有シークレットが必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewInternalSecretMiddleware(deps.InternalAPISecret, logger))

			generationLimit := deps.RateLimiter.GenerationMiddleware()

			// AI生成（生成専用レート制限を追加）
			r.With(generationLimit).Post("/api/generate-code", aiHandler.GenerateCode)
			r.With(generationLimit).Post("/api/ai-chat", aiHandler.Chat)
			r.With(generationLimit).Post("/api/enhance-prompt", aiHandler.EnhancePrompt)
			r.With(generationLimit).Post("/api/generate-app", aiHandler.GenerateApp)

			// アプリケーション状態
			r.Route("/api/workspace", func(r chi.Router) {
				r.Get("/", workspaceHandler.GetState)
				r.Post("/login", workspaceHandler.Login)
				r.Post("/register", workspaceHandler.Register)
				r.Post("/logout", workspaceHandler.Logout)
				r.Put("/subscription", workspaceHandler.UpdateSubscription)
				r.Get("/current", workspaceHandler.GetCurrentProject)
				r.Put("/current", workspaceHandler.SetCurrentProject)

				r.Route("/projects", func(r chi.Router) {
					r.Post("/", workspaceHandler.CreateProject)
					r.With(generationLimit).Post("/generate", workspaceHandler.GenerateProject)
					r.Route("/{id}", func(r chi.Router) {
						r.Patch("/", workspaceHandler.UpdateProject)
						r.Delete("/", workspaceHandler.DeleteProject)
						r.Put("/files", workspaceHandler.UpdateProjectFiles)
					})
				})

				r.Get("/api-keys", workspaceHandler.GetAPIKeys)
				r.Put("/api-keys", workspaceHandler.SaveAPIKeys)
			})
		})
	})

	return r
}
