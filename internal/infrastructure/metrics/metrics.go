// Package metrics Prometheus 指标注册与暴露
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pet_adoption"

var (
	// Registry 应用专用的指标注册表
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms ~ 5s
		},
		[]string{"method", "path"},
	)

	applicationResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "adoption",
			Name:      "applications_total",
			Help:      "Adoption application transitions by result.",
		},
		[]string{"result"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		},
		[]string{"mode"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		applicationResults,
		rateLimited,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted 请求进入时调用，返回的函数在请求结束时调用
// path 使用路由模板（如 /api/pets/:id），未匹配路由记为 unmatched
func RequestStarted() func(method, path string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, path string, status int) {
		httpInFlight.Dec()
		if path == "" {
			path = "unmatched"
		}
		method = strings.ToUpper(method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordApplication 记录申请流转：created / approved / rejected / auto_rejected / conflict
func RecordApplication(result string, n int) {
	if n <= 0 {
		return
	}
	applicationResults.WithLabelValues(result).Add(float64(n))
}

// RecordRateLimited 记录被限流的请求
func RecordRateLimited(mode string) {
	rateLimited.WithLabelValues(mode).Inc()
}
