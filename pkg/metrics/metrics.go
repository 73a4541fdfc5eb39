package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 指标收集器
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	threadBuildDuration prometheus.Histogram
	threadSize          prometheus.Histogram
}

// NewCollector 创建指标收集器
func NewCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		cacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_prefix"},
		),

		cacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_prefix"},
		),

		threadBuildDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "comment_thread_build_duration_seconds",
				Help:    "Time spent materializing a comment thread",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),

		threadSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "comment_thread_size",
				Help:    "Number of comments per materialized thread",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *Collector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup 记录缓存命中/未命中
func (m *Collector) RecordCacheLookup(keyPrefix string, hit bool) {
	if hit {
		m.cacheHitsTotal.WithLabelValues(keyPrefix).Inc()
	} else {
		m.cacheMissesTotal.WithLabelValues(keyPrefix).Inc()
	}
}

// RecordThreadBuild 记录评论树构建耗时与规模
func (m *Collector) RecordThreadBuild(duration time.Duration, size int) {
	m.threadBuildDuration.Observe(duration.Seconds())
	m.threadSize.Observe(float64(size))
}

// Default 全局收集器实例
var Default = NewCollector()
