// Package generation はAIディスパッチと雛形生成を組み合わせたコード生成サービスを提供する。
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/altaimate/internal/ai"
	"github.com/hitoshi/altaimate/internal/model"
	"github.com/hitoshi/altaimate/internal/scaffold"
)

// 生成結果の出所
const (
	SourceAI       = "ai"
	SourceTemplate = "template"
)

// Dispatcher はAIプロバイダの呼び出し口。
type Dispatcher interface {
	Complete(ctx context.Context, call ai.Call) (*ai.Result, error)
}

// FallbackRecorder は雛形へのフォールバックの計測先。
type FallbackRecorder interface {
	ObserveFallback(kind, reason string)
}

// CodeRequest はコード生成の依頼。
type CodeRequest struct {
	Prompt      string
	Model       string
	Language    string
	Framework   string
	ProjectType string
	Keys        model.APIKeySet
}

// CodeResult はコード生成の結果。
type CodeResult struct {
	Code     string
	Model    string
	Provider ai.ProviderName
}

// ChatRequest はチャットの依頼。
type ChatRequest struct {
	Message string
	Model   string
	Keys    model.APIKeySet
}

// ChatResult はチャットの応答。
type ChatResult struct {
	Response  string
	Timestamp time.Time
}

// EnhanceRequest はプロンプト改善の依頼。
type EnhanceRequest struct {
	Prompt string
	Model  string
	Keys   model.APIKeySet
}

// AppRequest はアプリ全体の生成依頼。
type AppRequest struct {
	Prompt      string
	ProjectType string
	Model       string
	Keys        model.APIKeySet
}

// AppResult はアプリ全体の生成結果。Sourceはaiかtemplateのどちらか。
type AppResult struct {
	Files    map[string]string
	Source   string
	Model    string
	Provider ai.ProviderName
}

// Service はコード生成のユースケースを提供する。
type Service struct {
	dispatcher Dispatcher
	recorder   FallbackRecorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(dispatcher Dispatcher, recorder FallbackRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// GenerateCode はプロンプトからコードを生成する。
// プロバイダの失敗はそのままエラーとして返し、雛形にはフォールバックしない。
func (s *Service) GenerateCode(ctx context.Context, req CodeRequest) (*CodeResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, model.NewValidationError("Prompt is required")
	}

	res, err := s.dispatcher.Complete(ctx, ai.Call{
		Model: req.Model,
		Keys:  req.Keys,
		Prompt: ai.BuildCodePrompt(ai.CodePromptInput{
			Prompt:      req.Prompt,
			Language:    req.Language,
			Framework:   req.Framework,
			ProjectType: req.ProjectType,
		}),
	})
	if err != nil {
		return nil, err
	}

	return &CodeResult{
		Code:     ai.StripCodeFence(res.Text),
		Model:    res.Model,
		Provider: res.Provider,
	}, nil
}

// Chat はアシスタントとして1回応答する。
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, model.NewValidationError("Message is required")
	}

	res, err := s.dispatcher.Complete(ctx, ai.Call{
		Model:  req.Model,
		Keys:   req.Keys,
		System: ai.ChatSystemPrompt,
		Prompt: req.Message,
	})
	if err != nil {
		return nil, err
	}

	return &ChatResult{Response: strings.TrimSpace(res.Text), Timestamp: s.now()}, nil
}

// EnhancePrompt はアイデアを生成向けの具体的な依頼文に書き直す。
func (s *Service) EnhancePrompt(ctx context.Context, req EnhanceRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", model.NewValidationError("Prompt is required")
	}

	res, err := s.dispatcher.Complete(ctx, ai.Call{
		Model:  req.Model,
		Keys:   req.Keys,
		Prompt: ai.BuildEnhancePrompt(req.Prompt),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Text), nil
}

// GenerateApp はアプリのファイル一式を生成する。
// キーがない場合、プロバイダが失敗した場合、応答がファイルマップとして解釈できない場合は
// 警告ログを出して雛形のファイル一式を返す。未知のモデル名はエラーとして返す。
func (s *Service) GenerateApp(ctx context.Context, req AppRequest) (*AppResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, model.NewValidationError("Prompt is required")
	}

	res, err := s.dispatcher.Complete(ctx, ai.Call{
		Model:     req.Model,
		Keys:      req.Keys,
		Prompt:    ai.BuildAppPrompt(req.Prompt, req.ProjectType),
		MaxTokens: ai.AppMaxTokens,
	})
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUnsupportedModel {
			return nil, err
		}
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeAPIKeyRequired {
			return s.fallback(req, "no_api_key", err), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return s.fallback(req, "provider_error", err), nil
	}

	files, err := ParseFileMap(res.Text)
	if err != nil {
		return s.fallback(req, "invalid_response", err), nil
	}

	return &AppResult{
		Files:    files,
		Source:   SourceAI,
		Model:    res.Model,
		Provider: res.Provider,
	}, nil
}

func (s *Service) fallback(req AppRequest, reason string, cause error) *AppResult {
	kind := scaffold.Classify(req.Prompt)
	s.logger.Warn("falling back to template generation",
		slog.String("reason", reason),
		slog.String("kind", string(kind)),
		slog.String("project_type", req.ProjectType),
		slog.String("error", cause.Error()),
	)
	if s.recorder != nil {
		s.recorder.ObserveFallback(string(kind), reason)
	}
	return &AppResult{
		Files:  scaffold.GenerateFiles(req.Prompt, req.ProjectType),
		Source: SourceTemplate,
	}
}

// errNotFileMap はプロバイダ応答がファイルマップでない場合のエラー。
var errNotFileMap = errors.New("response is not a file map")

// ParseFileMap はプロバイダ応答から最初の{から最後の}までをJSONのファイルマップとして解釈する。
// 空のマップや相対パスでないキーを含む場合はエラーを返す。
func ParseFileMap(text string) (map[string]string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, errNotFileMap
	}

	var files map[string]string
	if err := json.Unmarshal([]byte(text[start:end+1]), &files); err != nil {
		return nil, errors.Join(errNotFileMap, err)
	}
	if len(files) == 0 {
		return nil, errNotFileMap
	}
	if err := model.ValidateFiles(files); err != nil {
		return nil, errors.Join(errNotFileMap, err)
	}
	return files, nil
}
