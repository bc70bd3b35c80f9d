// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// AIディスパッチャ、生成サービス、HTTPミドルウェアから利用する。
type MetricsCollector interface {
	ObserveProviderRequest(provider, outcome string, elapsed time.Duration)
	ObserveFallback(kind, reason string)
	RecordHTTPRequest(method, route string, statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	fallbacks        *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "altaimate_provider_requests_total",
			Help: "AIプロバイダ呼び出しの合計数",
		}, []string{"provider", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "altaimate_provider_latency_seconds",
			Help:    "AIプロバイダ呼び出しのレイテンシ（秒）",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"provider"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "altaimate_template_fallbacks_total",
			Help: "テンプレートにフォールバックしたアプリ生成の合計数",
		}, []string{"kind", "reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "altaimate_http_requests_total",
			Help: "HTTPリクエスト数（メソッド・ルート・ステータス別）",
		}, []string{"method", "route", "status_code"}),
	}

	reg.MustRegister(
		c.providerRequests,
		c.providerLatency,
		c.fallbacks,
		c.httpRequests,
	)

	return c
}

// ObserveProviderRequest はプロバイダ呼び出しの結果とレイテンシを記録する。
func (c *Collector) ObserveProviderRequest(provider, outcome string, elapsed time.Duration) {
	c.providerRequests.WithLabelValues(provider, outcome).Inc()
	c.providerLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveFallback はテンプレートへのフォールバックを記録する。
func (c *Collector) ObserveFallback(kind, reason string) {
	c.fallbacks.WithLabelValues(kind, reason).Inc()
}

// RecordHTTPRequest はHTTPリクエストを記録する。
// routeにはURLパターンを渡し、IDなどでラベルが増えないようにする。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
