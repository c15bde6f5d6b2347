package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics Prometheusメトリクス一式（nilの場合は何も記録しない）
type Metrics struct {
	registry *prometheus.Registry

	CacheLookups       *prometheus.CounterVec
	ClassifierRequests *prometheus.CounterVec
	ClassifierLatency  *prometheus.HistogramVec
	Jobs               *prometheus.CounterVec
}

// New 専用レジストリにメトリクスを登録して作成
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiment_cache_lookups_total",
				Help: "Sentiment cache lookups by result",
			},
			[]string{"result"}, // hit, miss
		),

		ClassifierRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiment_classifier_requests_total",
				Help: "Requests sent to the ML classifier",
			},
			[]string{"endpoint", "outcome"},
		),

		ClassifierLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentiment_classifier_request_duration_seconds",
				Help:    "ML classifier request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),

		Jobs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiment_jobs_total",
				Help: "Background jobs processed by type and status",
			},
			[]string{"type", "status"},
		),
	}
}

// RecordCacheLookup キャッシュのヒット/ミスを記録
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordClassifierRequest 推論サービス呼び出しを記録
func (m *Metrics) RecordClassifierRequest(endpoint string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.ClassifierRequests.WithLabelValues(endpoint, outcome).Inc()
	m.ClassifierLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordJob 処理したジョブを記録
func (m *Metrics) RecordJob(jobType string, err error) {
	if m == nil {
		return
	}
	status := "done"
	if err != nil {
		status = "failed"
	}
	m.Jobs.WithLabelValues(jobType, status).Inc()
}

// Handler /metrics のHTTPハンドラーを返す
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 内部のレジストリを返す
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
