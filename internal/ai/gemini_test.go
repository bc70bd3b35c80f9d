package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/gemini-1.5-pro:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"function App() {}"}]}}]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider(srv.URL, srv.Client())
	text, err := p.Complete(context.Background(), CompletionRequest{
		Model:       "gemini-1.5-pro",
		APIKey:      "g-test",
		Prompt:      "write an app",
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "function App() {}" {
		t.Errorf("text = %q, want %q", text, "function App() {}")
	}
}

func TestGeminiProvider_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider(srv.URL, srv.Client())
	_, err := p.Complete(context.Background(), CompletionRequest{Model: "gemini-1.5-pro", APIKey: "bad", Prompt: "x"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("error = %q, want upstream message", err.Error())
	}
}
