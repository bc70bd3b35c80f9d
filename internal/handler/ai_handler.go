package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/altaimate/internal/ai"
	"github.com/hitoshi/altaimate/internal/generation"
	"github.com/hitoshi/altaimate/internal/model"
)

// GenerationServiceInterface はAIハンドラーが必要とする生成サービスのインターフェース。
type GenerationServiceInterface interface {
	GenerateCode(ctx context.Context, req generation.CodeRequest) (*generation.CodeResult, error)
	Chat(ctx context.Context, req generation.ChatRequest) (*generation.ChatResult, error)
	EnhancePrompt(ctx context.Context, req generation.EnhanceRequest) (string, error)
	GenerateApp(ctx context.Context, req generation.AppRequest) (*generation.AppResult, error)
}

// KeySource は保存済みのAPIキーの取得元。workspace.Storeが実装する。
type KeySource interface {
	APIKeys() model.APIKeySet
}

// AIHandler はAI生成エンドポイントのHTTPハンドラー。
// リクエストにキーがないプロバイダは保存済みのキーで補う。
// どちらにもない場合はディスパッチャがサーバー設定のキーを使う。
type AIHandler struct {
	service    GenerationServiceInterface
	keys       KeySource
	serverKeys model.APIKeySet
	logger     *slog.Logger
}

// NewAIHandler はAIHandlerを生成する。keysはnilでもよい。
func NewAIHandler(service GenerationServiceInterface, keys KeySource, serverKeys model.APIKeySet, logger *slog.Logger) *AIHandler {
	return &AIHandler{service: service, keys: keys, serverKeys: serverKeys, logger: logger}
}

type generateCodeRequest struct {
	Prompt      string         `json:"prompt"`
	Model       string         `json:"model"`
	Language    string         `json:"language"`
	Framework   string         `json:"framework"`
	ProjectType string         `json:"projectType"`
	APIKeys     apiKeysRequest `json:"apiKeys"`
}

type generateCodeResponse struct {
	Code     string `json:"code"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

type chatRequest struct {
	Message string         `json:"message"`
	Model   string         `json:"model"`
	APIKeys apiKeysRequest `json:"apiKeys"`
}

type chatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type enhancePromptRequest struct {
	Prompt  string         `json:"prompt"`
	Model   string         `json:"model"`
	APIKeys apiKeysRequest `json:"apiKeys"`
}

type enhancePromptResponse struct {
	EnhancedPrompt string `json:"enhancedPrompt"`
}

type generateAppRequest struct {
	Prompt      string         `json:"prompt"`
	ProjectType string         `json:"projectType"`
	Model       string         `json:"model"`
	APIKeys     apiKeysRequest `json:"apiKeys"`
}

type generateAppResponse struct {
	Files  map[string]string `json:"files"`
	Source string            `json:"source"`
}

type modelResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	Available bool   `json:"available"`
}

// GenerateCode はプロンプトからコードを生成する。
// POST /api/generate-code
func (h *AIHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	var req generateCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.GenerateCode(r.Context(), generation.CodeRequest{
		Prompt:      req.Prompt,
		Model:       req.Model,
		Language:    req.Language,
		Framework:   req.Framework,
		ProjectType: req.ProjectType,
		Keys:        h.requestKeys(req.APIKeys),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, generateCodeResponse{
		Code:     res.Code,
		Model:    res.Model,
		Provider: string(res.Provider),
	})
}

// Chat はアシスタントの応答を返す。
// POST /api/ai-chat
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.Chat(r.Context(), generation.ChatRequest{
		Message: req.Message,
		Model:   req.Model,
		Keys:    h.requestKeys(req.APIKeys),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: res.Response, Timestamp: res.Timestamp.UTC()})
}

// EnhancePrompt はプロンプトを具体的な依頼文に書き直す。
// POST /api/enhance-prompt
func (h *AIHandler) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	var req enhancePromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enhanced, err := h.service.EnhancePrompt(r.Context(), generation.EnhanceRequest{
		Prompt: req.Prompt,
		Model:  req.Model,
		Keys:   h.requestKeys(req.APIKeys),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, enhancePromptResponse{EnhancedPrompt: enhanced})
}

// GenerateApp はアプリのファイル一式を生成する。AIが使えない場合は雛形を返す。
// POST /api/generate-app
func (h *AIHandler) GenerateApp(w http.ResponseWriter, r *http.Request) {
	var req generateAppRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.GenerateApp(r.Context(), generation.AppRequest{
		Prompt:      req.Prompt,
		ProjectType: req.ProjectType,
		Model:       req.Model,
		Keys:        h.requestKeys(req.APIKeys),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, generateAppResponse{Files: res.Files, Source: res.Source})
}

// ListModels は既知のモデルと、キーが用意されているかどうかを返す。
// GET /api/models
func (h *AIHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	keys := h.requestKeys(apiKeysRequest{})
	models := ai.Models()
	out := make([]modelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, modelResponse{
			ID:        m.ID,
			Name:      m.Name,
			Provider:  string(m.Provider),
			Available: ai.HasKey(m.Provider, keys) || ai.HasKey(m.Provider, h.serverKeys),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": out})
}

// requestKeys はリクエストのキーを優先し、空のものを保存済みのキーで補う。
func (h *AIHandler) requestKeys(req apiKeysRequest) model.APIKeySet {
	keys := req.toModel()
	if h.keys == nil {
		return keys
	}
	return mergeKeys(keys, h.keys.APIKeys())
}

func mergeKeys(primary, fallback model.APIKeySet) model.APIKeySet {
	if primary.Gemini == "" {
		primary.Gemini = fallback.Gemini
	}
	if primary.OpenAI == "" {
		primary.OpenAI = fallback.OpenAI
	}
	if primary.Anthropic == "" {
		primary.Anthropic = fallback.Anthropic
	}
	return primary
}
