// Package metrics экспортирует метрики подбора образов в формате Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
)

const namespace = "wearwhat"

// StylingMetrics реализует usecase.StylingMetrics и composer.DownloadMetrics.
type StylingMetrics struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	emptySlots       *prometheus.CounterVec
	downloadFailures prometheus.Counter
}

// NewStylingMetrics регистрирует метрики в registry. nil - новый registry.
func NewStylingMetrics(registry *prometheus.Registry) *StylingMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &StylingMetrics{
		registry: registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "styling",
				Name:      "requests_total",
				Help:      "Total number of outfit styling requests by status",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "styling",
				Name:      "duration_seconds",
				Help:      "Outfit styling latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"status"},
		),
		emptySlots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "matcher",
				Name:      "empty_slots_total",
				Help:      "Complement groups without any matching item",
			},
			[]string{"group"},
		),
		downloadFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "composer",
				Name:      "download_failures_total",
				Help:      "Outfit images skipped because download or decode failed",
			},
		),
	}

	registry.MustRegister(m.requests, m.duration, m.emptySlots, m.downloadFailures)

	return m
}

func (m *StylingMetrics) ObserveStyleOutfit(status string, elapsed time.Duration) {
	m.requests.WithLabelValues(status).Inc()
	m.duration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (m *StylingMetrics) IncEmptySlot(group domain.CategoryGroup) {
	m.emptySlots.WithLabelValues(string(group)).Inc()
}

func (m *StylingMetrics) IncDownloadFailure() {
	m.downloadFailures.Inc()
}

// Handler отдаёт метрики для /metrics.
func (m *StylingMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
