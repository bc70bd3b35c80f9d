package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiProvider はGemini APIのクライアント。
// APIキーはリクエストごとに異なり得るため、呼び出しごとにgenai.Clientを生成する。
type GeminiProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeminiProvider はGeminiProviderを生成する。baseURLが空の場合はSDKの既定値を使う。
func NewGeminiProvider(baseURL string, httpClient *http.Client) *GeminiProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiProvider{baseURL: baseURL, httpClient: httpClient}
}

// Name はプロバイダ名を返す。
func (p *GeminiProvider) Name() ProviderName { return ProviderGemini }

// Complete はgenerateContentを1回呼び出してテキストを返す。
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      req.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  p.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: p.baseURL},
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("no completion returned")
	}
	return text, nil
}
