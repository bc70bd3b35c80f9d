package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// anthropicVersion はMessages APIのバージョンヘッダー値。
const anthropicVersion = "2023-06-01"

// AnthropicProvider はMessages APIのクライアント。
type AnthropicProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicProvider はAnthropicProviderを生成する。baseURLは/v1までを含む。
func NewAnthropicProvider(baseURL string, httpClient *http.Client) *AnthropicProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AnthropicProvider{baseURL: baseURL, httpClient: httpClient}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Name はプロバイダ名を返す。
func (p *AnthropicProvider) Name() ProviderName { return ProviderAnthropic }

// Complete はメッセージを1回送信し、テキストブロックを連結して返す。
func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	body := anthropicRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}

	var resp anthropicResponse
	headers := map[string]string{
		"x-api-key":         req.APIKey,
		"anthropic-version": anthropicVersion,
	}
	if err := postJSON(ctx, p.httpClient, p.baseURL+"/messages", headers, body, &resp); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no completion returned")
	}
	return b.String(), nil
}
