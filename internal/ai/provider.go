// Package ai はモデル名からAIプロバイダを選び、1回だけ呼び出すディスパッチャを提供する。
package ai

import (
	"context"
	"strings"

	"github.com/hitoshi/altaimate/internal/model"
)

// ProviderName はAIプロバイダの識別子。APIキーセットのフィールド名と対応する。
type ProviderName string

const (
	ProviderGemini    ProviderName = "gemini"
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
)

// DisplayName はエラーメッセージ向けの表示名を返す。
func (p ProviderName) DisplayName() string {
	switch p {
	case ProviderGemini:
		return "Gemini"
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	}
	return string(p)
}

// CompletionRequest はプロバイダへの1回分の問い合わせ内容。
type CompletionRequest struct {
	Model       string
	APIKey      string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Provider は外部AIプロバイダのクライアント。
// 実装はリトライやキャッシュを行わず、1回のHTTP呼び出しでテキストを返す。
type Provider interface {
	Name() ProviderName
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// prefixes はモデル名の接頭辞とプロバイダの対応。
var prefixes = []struct {
	prefix   string
	provider ProviderName
}{
	{"gemini", ProviderGemini},
	{"gpt", ProviderOpenAI},
	{"claude", ProviderAnthropic},
}

// ResolveProvider はモデル名の接頭辞(大文字小文字を区別しない)からプロバイダを決める。
// どれにも一致しない場合はUNSUPPORTED_MODELのAPIErrorを返す。
func ResolveProvider(modelID string) (ProviderName, error) {
	lower := strings.ToLower(strings.TrimSpace(modelID))
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.provider, nil
		}
	}
	return "", model.NewUnsupportedModelError(modelID)
}

// ResolveKey はリクエストで渡されたキーを優先し、なければサーバー設定のキーを使う。
// どちらも空の場合はAPI_KEY_REQUIREDのAPIErrorを返す。
func ResolveKey(provider ProviderName, requestKeys, serverKeys model.APIKeySet) (string, error) {
	if k := strings.TrimSpace(keyFor(provider, requestKeys)); k != "" {
		return k, nil
	}
	if k := strings.TrimSpace(keyFor(provider, serverKeys)); k != "" {
		return k, nil
	}
	return "", model.NewAPIKeyRequiredError(provider.DisplayName())
}

func keyFor(provider ProviderName, keys model.APIKeySet) string {
	switch provider {
	case ProviderGemini:
		return keys.Gemini
	case ProviderOpenAI:
		return keys.OpenAI
	case ProviderAnthropic:
		return keys.Anthropic
	}
	return ""
}
