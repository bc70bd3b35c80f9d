package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HTTPRecorder はHTTPリクエストの記録先。metrics.Collectorが実装する。
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, statusCode int)
}

// NewMetricsMiddleware はリクエストごとにメソッド・ルートパターン・ステータスを記録するミドルウェアを返す。
// ルートに一致しなかったリクエストは"unmatched"として記録する。
func NewMetricsMiddleware(recorder HTTPRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			recorder.RecordHTTPRequest(r.Method, route, rec.statusCode)
		})
	}
}
