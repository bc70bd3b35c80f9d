package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/altaimate/internal/model"
)

// プロバイダ呼び出し結果のラベル
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder はプロバイダ呼び出しの計測先。
type Recorder interface {
	ObserveProviderRequest(provider, outcome string, elapsed time.Duration)
}

// Call はディスパッチャへの1回分の依頼。
type Call struct {
	Model       string
	Keys        model.APIKeySet
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Result はプロバイダが返したテキストと、実際に使われたモデル・プロバイダ。
type Result struct {
	Text     string
	Model    string
	Provider ProviderName
}

// Dispatcher はモデル名からプロバイダを選び、キーを解決して1回だけ呼び出す。
type Dispatcher struct {
	providers    map[ProviderName]Provider
	serverKeys   model.APIKeySet
	defaultModel string
	recorder     Recorder
	logger       *slog.Logger
}

// NewDispatcher はDispatcherを生成する。recorderはnilでもよい。
func NewDispatcher(providers []Provider, serverKeys model.APIKeySet, defaultModel string, recorder Recorder, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	m := make(map[ProviderName]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Dispatcher{
		providers:    m,
		serverKeys:   serverKeys,
		defaultModel: defaultModel,
		recorder:     recorder,
		logger:       logger,
	}
}

// DefaultModel はモデル未指定時に使うモデル名を返す。
func (d *Dispatcher) DefaultModel() string {
	return d.defaultModel
}

// Complete はプロバイダを1回呼び出す。
// モデルが未知の場合やキーがない場合は上流を呼び出さずにAPIErrorを返す。
// 上流の失敗はPROVIDER_ERRORとしてメッセージをそのまま返す。
func (d *Dispatcher) Complete(ctx context.Context, call Call) (*Result, error) {
	modelID := call.Model
	if modelID == "" {
		modelID = d.defaultModel
	}

	name, err := ResolveProvider(modelID)
	if err != nil {
		return nil, err
	}

	provider, ok := d.providers[name]
	if !ok {
		return nil, model.NewUnsupportedModelError(modelID)
	}

	key, err := ResolveKey(name, call.Keys, d.serverKeys)
	if err != nil {
		return nil, err
	}

	temperature := call.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	maxTokens := call.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	start := time.Now()
	text, err := provider.Complete(ctx, CompletionRequest{
		Model:       modelID,
		APIKey:      key,
		System:      call.System,
		Prompt:      call.Prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	elapsed := time.Since(start)

	if err != nil {
		d.observe(name, OutcomeError, elapsed)
		d.logger.Error("provider request failed",
			slog.String("provider", string(name)),
			slog.String("model", modelID),
			slog.Int64("duration_ms", elapsed.Milliseconds()),
			slog.String("error", err.Error()),
		)
		return nil, model.NewProviderError(name.DisplayName(), err.Error())
	}

	d.observe(name, OutcomeSuccess, elapsed)
	d.logger.Info("provider request completed",
		slog.String("provider", string(name)),
		slog.String("model", modelID),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
		slog.Int("response_len", len(text)),
	)

	return &Result{Text: text, Model: modelID, Provider: name}, nil
}

func (d *Dispatcher) observe(name ProviderName, outcome string, elapsed time.Duration) {
	if d.recorder != nil {
		d.recorder.ObserveProviderRequest(string(name), outcome, elapsed)
	}
}
