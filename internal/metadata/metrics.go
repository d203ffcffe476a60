package metadata

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records resolver outcomes. A nil registerer yields unregistered collectors.
type Metrics struct {
	resolves  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	bodyBytes prometheus.Histogram
}

// NewMetrics creates the resolver collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		resolves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urlist",
			Subsystem: "metadata",
			Name:      "resolve_total",
			Help:      "Metadata resolutions by outcome.",
		}, []string{"result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "urlist",
			Subsystem: "metadata",
			Name:      "resolve_duration_seconds",
			Help:      "Wall time of metadata resolutions by outcome.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"result"}),
		bodyBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "urlist",
			Subsystem: "metadata",
			Name:      "body_bytes",
			Help:      "Size of fetched HTML bodies after truncation.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
}

func (m *Metrics) observe(kind Kind, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.resolves.WithLabelValues(string(kind)).Inc()
	m.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (m *Metrics) observeBody(size int) {
	if m == nil {
		return
	}
	m.bodyBytes.Observe(float64(size))
}
