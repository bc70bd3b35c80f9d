package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/hitoshi/altaimate/internal/middleware"
	"github.com/hitoshi/altaimate/internal/model"
	"github.com/hitoshi/altaimate/internal/workspace"
)

const testSecret = "router-test-secret"

// recordingHTTPRecorder は記録されたルートパターンを保持する。
type recordingHTTPRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (r *recordingHTTPRecorder) RecordHTTPRequest(method, route string, statusCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, method+" "+route)
}

func newTestRouter(t *testing.T, mutate func(*RouterDeps)) http.Handler {
	t.Helper()
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig(), discardLogger())
	t.Cleanup(limiter.Stop)

	dir := t.TempDir()
	deps := &RouterDeps{
		Logger:            discardLogger(),
		CORSAllowedOrigin: "http://localhost:3000",
		InternalAPISecret: testSecret,
		RateLimiter:       limiter,
		CatalogService: &mockCatalogService{
			listProjectsFn: func(ctx context.Context) ([]model.ProjectRecord, error) {
				return []model.ProjectRecord{}, nil
			},
		},
		GenerationService: &mockGenerationService{},
		WorkspaceStore:    workspace.Open(filepath.Join(dir, "state.json"), filepath.Join(dir, "keys.json"), discardLogger()),
	}
	if mutate != nil {
		mutate(deps)
	}
	return NewRouter(deps)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func withSecret(req *http.Request) *http.Request {
	req.Header.Set(middleware.InternalSecretHeader, testSecret)
	return req
}

func TestRouter_HealthWithoutSecret(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/health", "/api/health"} {
		w := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", path, w.Code, http.StatusOK)
		}
		if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("%s X-Content-Type-Options = %q, want %q", path, got, "nosniff")
		}
	}
}

func TestRouter_CatalogRoutesArePublic(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/api/projects", "/api/servers", "/api/models"} {
		w := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}

func TestRouter_ProtectedRoutesRequireSecret(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/generate-code"},
		{http.MethodPost, "/api/ai-chat"},
		{http.MethodPost, "/api/enhance-prompt"},
		{http.MethodPost, "/api/generate-app"},
		{http.MethodGet, "/api/workspace"},
		{http.MethodPost, "/api/workspace/projects"},
		{http.MethodPut, "/api/workspace/api-keys"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(router, jsonRequest(tt.method, tt.path, `{}`))
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if body := parseAPIErrorResponse(t, w); body["code"] != model.ErrCodeUnauthorized {
				t.Errorf("code = %q, want %q", body["code"], model.ErrCodeUnauthorized)
			}
		})
	}
}

func TestRouter_WorkspaceFlowWithSecret(t *testing.T) {
	router := newTestRouter(t, nil)

	w := serve(router, withSecret(jsonRequest(http.MethodPost, "/api/workspace/projects", `{"name":"Demo","type":"web"}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d\nbody: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var created model.Project
	decodeBody(t, w, &created)

	w = serve(router, withSecret(jsonRequest(http.MethodPatch, "/api/workspace/projects/"+created.ID, `{"name":"Renamed"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want %d", w.Code, http.StatusOK)
	}

	w = serve(router, withSecret(jsonRequest(http.MethodPut, "/api/workspace/projects/"+created.ID+"/files", `{"files":{"index.html":"<h1>hi</h1>"}}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("files status = %d, want %d", w.Code, http.StatusOK)
	}

	w = serve(router, withSecret(httptest.NewRequest(http.MethodGet, "/api/workspace", nil)))
	if !strings.Contains(w.Body.String(), `"name":"Renamed"`) {
		t.Errorf("state does not contain renamed project: %s", w.Body.String())
	}

	w = serve(router, withSecret(httptest.NewRequest(http.MethodDelete, "/api/workspace/projects/"+created.ID, nil)))
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestRouter_GenerateAppWithSecret(t *testing.T) {
	router := newTestRouter(t, nil)

	w := serve(router, withSecret(jsonRequest(http.MethodPost, "/api/generate-app", `{"prompt":"todo","projectType":"web"}`)))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_UnknownRoute_ReturnsJSON404(t *testing.T) {
	router := newTestRouter(t, nil)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
	if body := parseAPIErrorResponse(t, w); body["code"] != "NOT_FOUND" {
		t.Errorf("code = %q, want %q", body["code"], "NOT_FOUND")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/generate-code", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(router, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_MetricsEndpointAndRecorder(t *testing.T) {
	recorder := &recordingHTTPRecorder{}
	router := newTestRouter(t, func(d *RouterDeps) {
		d.HTTPRecorder = recorder
		d.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# metrics\n"))
		})
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || w.Body.String() != "# metrics\n" {
		t.Errorf("metrics status = %d body = %q", w.Code, w.Body.String())
	}

	serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	found := false
	for _, r := range recorder.routes {
		if r == "GET /health" {
			found = true
		}
	}
	if !found {
		t.Errorf("routes = %v, want GET /health", recorder.routes)
	}
}

func TestRouter_NoMetricsHandler_MetricsIsNotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestRouter_GenerationRateLimit(t *testing.T) {
	router := newTestRouter(t, func(d *RouterDeps) {
		limiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(120, 1), discardLogger())
		t.Cleanup(limiter.Stop)
		d.RateLimiter = limiter
	})

	first := serve(router, withSecret(jsonRequest(http.MethodPost, "/api/ai-chat", `{"message":"hi"}`)))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want %d", first.Code, http.StatusOK)
	}
	second := serve(router, withSecret(jsonRequest(http.MethodPost, "/api/ai-chat", `{"message":"hi"}`)))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want %d", second.Code, http.StatusTooManyRequests)
	}

	// 生成以外のルートは一般のレート制限のみ
	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	if w.Code != http.StatusOK {
		t.Errorf("projects status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_RotatingForwardedHeader_StillRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(120, 1), discardLogger())
	t.Cleanup(limiter.Stop)
	router := newTestRouter(t, func(d *RouterDeps) { d.RateLimiter = limiter })

	limited := 0
	for i := 0; i < 5; i++ {
		req := withSecret(jsonRequest(http.MethodPost, "/api/generate-code", `{"prompt":"x"}`))
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i+1))
		req.Header.Set("X-Real-IP", "203.0.113."+strconv.Itoa(i+1))
		if w := serve(router, req); w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited != 4 {
		t.Errorf("limited = %d, want 4", limited)
	}
	if n := limiter.GenerationLimiterCount(); n != 1 {
		t.Errorf("generation limiter entries = %d, want 1", n)
	}
	if n := limiter.GeneralLimiterCount(); n != 1 {
		t.Errorf("general limiter entries = %d, want 1", n)
	}
}

func TestRouter_TrustedProxy_KeysOnForwardedClient(t *testing.T) {
	limiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(120, 1), discardLogger())
	t.Cleanup(limiter.Stop)
	router := newTestRouter(t, func(d *RouterDeps) {
		d.RateLimiter = limiter
		// httptestのRemoteAddrは192.0.2.1
		d.TrustedProxies = "192.0.2.0/24"
	})

	for i := 0; i < 3; i++ {
		req := withSecret(jsonRequest(http.MethodPost, "/api/generate-code", `{"prompt":"x"}`))
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i+1))
		if w := serve(router, req); w.Code != http.StatusOK {
			t.Errorf("request %d status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}
	if n := limiter.GenerationLimiterCount(); n != 3 {
		t.Errorf("generation limiter entries = %d, want 3", n)
	}
}

func TestRouter_GetCatalogProject(t *testing.T) {
	router := newTestRouter(t, func(d *RouterDeps) {
		d.CatalogService = &mockCatalogService{
			getProjectFn: func(ctx context.Context, id string) (*model.ProjectRecord, error) {
				if id == "rec-1" {
					return &model.ProjectRecord{ID: id, Name: "Shop"}, nil
				}
				return nil, model.NewProjectNotFoundError(id)
			},
		}
	})

	if w := serve(router, httptest.NewRequest(http.MethodGet, "/api/projects/rec-1", nil)); w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if w := serve(router, httptest.NewRequest(http.MethodGet, "/api/projects/other", nil)); w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
