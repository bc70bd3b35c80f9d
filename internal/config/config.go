package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort string
	BaseURL    string

	// Security
	InternalAPISecret string

	// CORS
	CORSAllowedOrigin string

	// Proxy (IP/CIDR list whose forwarding headers are trusted)
	TrustedProxies string

	// AI providers
	GeminiAPIKey     string
	OpenAIAPIKey     string
	AnthropicAPIKey  string
	GeminiBaseURL    string
	OpenAIBaseURL    string
	AnthropicBaseURL string
	DefaultModel     string
	AIRequestTimeout time.Duration

	// Rate Limit (requests per minute per client)
	RateLimitGeneral    int
	RateLimitGeneration int

	// Database (optional)
	DatabaseURL string

	// Workspace storage
	WorkspaceStatePath string
	WorkspaceKeysPath  string

	// Logging
	LogLevel slog.Level
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む。既に設定済みの環境変数は上書きしない。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.InternalAPISecret = os.Getenv("INTERNAL_API_SECRET")
	if cfg.InternalAPISecret == "" {
		missing = append(missing, "INTERNAL_API_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.ServerPort = getEnvString("SERVER_PORT", "3001")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:"+cfg.ServerPort)
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")
	cfg.TrustedProxies = os.Getenv("TRUSTED_PROXIES")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.GeminiBaseURL = getEnvString("GEMINI_BASE_URL", "")
	cfg.OpenAIBaseURL = strings.TrimRight(getEnvString("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/")
	cfg.AnthropicBaseURL = strings.TrimRight(getEnvString("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1"), "/")
	cfg.DefaultModel = getEnvString("DEFAULT_MODEL", "gemini-1.5-pro")
	cfg.AIRequestTimeout = getEnvDuration("AI_REQUEST_TIMEOUT", 60*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitGeneration = getEnvInt("RATE_LIMIT_GENERATION", 20)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.WorkspaceStatePath = getEnvString("WORKSPACE_STATE_PATH", "data/alt-ai-mate-app-state.json")
	cfg.WorkspaceKeysPath = getEnvString("WORKSPACE_KEYS_PATH", "data/alt-ai-mate-api-keys.json")
	cfg.LogLevel = getEnvLogLevel("LOG_LEVEL", slog.LevelInfo)

	return cfg, nil
}

// loadDotEnv は.envファイルを読み込む。ファイルが存在しない場合は何もしない。
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvLogLevel(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return defaultVal
	}
	return level
}
