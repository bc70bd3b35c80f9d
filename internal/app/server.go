package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/altaimate/internal/ai"
	"github.com/hitoshi/altaimate/internal/catalog"
	"github.com/hitoshi/altaimate/internal/config"
	"github.com/hitoshi/altaimate/internal/database"
	"github.com/hitoshi/altaimate/internal/generation"
	"github.com/hitoshi/altaimate/internal/handler"
	"github.com/hitoshi/altaimate/internal/metrics"
	"github.com/hitoshi/altaimate/internal/middleware"
	"github.com/hitoshi/altaimate/internal/model"
	"github.com/hitoshi/altaimate/internal/repository"
	"github.com/hitoshi/altaimate/internal/security"
	"github.com/hitoshi/altaimate/internal/workspace"
)

// dbPingTimeout は起動時のDB接続確認のタイムアウト。
const dbPingTimeout = 5 * time.Second

// serveDeps はワイヤリング済みのHTTPハンドラーと、停止時に解放するリソース。
type serveDeps struct {
	handler http.Handler
	db      *sql.DB
	limiter *middleware.RateLimiter
}

// Close はレート制限のクリーンアップとDB接続を停止する。
func (s *serveDeps) Close() {
	s.limiter.Stop()
	if s.db != nil {
		s.db.Close()
	}
}

// newServeDeps は設定から全依存関係を構築する。
// DATABASE_URLが設定されている場合のみPostgreSQLに接続し、マイグレーションを適用する。
// 未設定の場合、プロジェクトレコードはメモリ上に保持する。
func newServeDeps(cfg *config.Config) (*serveDeps, error) {
	logger := slog.Default()

	// 1. プロジェクトレコードの保存先
	var (
		db       *sql.DB
		projects repository.ProjectRecordRepository
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = openDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		projects = repository.NewPostgresProjectRecordRepo(db)
		slog.Info("database connection established")
	} else {
		projects = repository.NewMemoryProjectRecordRepo(repository.SeedProjectRecords())
		slog.Info("DATABASE_URL is not set, using in-memory project records")
	}
	servers := repository.NewStaticServerRecordRepo(repository.SeedServerRecords())

	// 2. メトリクス
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// 3. AIプロバイダ
	serverKeys := model.APIKeySet{
		Gemini:    cfg.GeminiAPIKey,
		OpenAI:    cfg.OpenAIAPIKey,
		Anthropic: cfg.AnthropicAPIKey,
	}
	httpClient := &http.Client{Timeout: cfg.AIRequestTimeout}
	dispatcher := ai.NewDispatcher([]ai.Provider{
		ai.NewGeminiProvider(cfg.GeminiBaseURL, httpClient),
		ai.NewOpenAIProvider(cfg.OpenAIBaseURL, httpClient),
		ai.NewAnthropicProvider(cfg.AnthropicBaseURL, httpClient),
	}, serverKeys, cfg.DefaultModel, collector, logger)

	// 4. ドメインサービス
	catalogService := catalog.NewService(projects, servers, security.NewTextSanitizer())
	generationService := generation.NewService(dispatcher, collector, logger)
	store := workspace.Open(cfg.WorkspaceStatePath, cfg.WorkspaceKeysPath, logger)

	// 5. ルーター
	limiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitGeneration),
		logger,
	)
	deps := &handler.RouterDeps{
		Logger:            logger,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		InternalAPISecret: cfg.InternalAPISecret,
		TrustedProxies:    cfg.TrustedProxies,
		RateLimiter:       limiter,
		HTTPRecorder:      collector,
		MetricsHandler:    metrics.Handler(reg),
		CatalogService:    catalogService,
		GenerationService: generationService,
		ServerKeys:        serverKeys,
		WorkspaceStore:    store,
	}
	if db != nil {
		deps.HealthChecker = db
	}

	return &serveDeps{handler: handler.NewRouter(deps), db: db, limiter: limiter}, nil
}

// openDatabase はDBに接続し、未適用のマイグレーションを適用する。
func openDatabase(databaseURL string) (*sql.DB, error) {
	db, err := database.Open(databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Ping(context.Background(), db, dbPingTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(databaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return db, nil
}
