package ai

import "github.com/hitoshi/altaimate/internal/model"

// ModelInfo はクライアントに提示するモデル情報。
type ModelInfo struct {
	ID       string
	Name     string
	Provider ProviderName
}

var catalog = []ModelInfo{
	{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Provider: ProviderGemini},
	{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Provider: ProviderGemini},
	{ID: "gpt-4", Name: "GPT-4", Provider: ProviderOpenAI},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Provider: ProviderOpenAI},
	{ID: "claude-3-sonnet-20240229", Name: "Claude 3 Sonnet", Provider: ProviderAnthropic},
	{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Provider: ProviderAnthropic},
}

// Models は既知のモデル一覧を返す。
func Models() []ModelInfo {
	out := make([]ModelInfo, len(catalog))
	copy(out, catalog)
	return out
}

// HasKey はプロバイダのキーが設定されているかを返す。
func HasKey(provider ProviderName, keys model.APIKeySet) bool {
	return keyFor(provider, keys) != ""
}
