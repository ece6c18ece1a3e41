package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the dialogue pipeline.
type ChatMetrics struct {
	turnsTotal      *prometheus.CounterVec
	fallbackTotal   prometheus.Counter
	externalLatency *prometheus.HistogramVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokochat",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total handled conversation turns",
		}, []string{"intent"}),
		fallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tokochat",
			Subsystem: "chat",
			Name:      "fallback_total",
			Help:      "Turns answered with the low-confidence fallback",
		}),
		externalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tokochat",
			Subsystem: "chat",
			Name:      "external_call_latency_seconds",
			Help:      "Latency of external action calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.fallbackTotal, m.externalLatency)
	return m
}

func (m *ChatMetrics) ObserveTurn(intent string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent).Inc()
}

func (m *ChatMetrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.fallbackTotal.Inc()
}

func (m *ChatMetrics) ObserveExternalCall(action, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.externalLatency.WithLabelValues(action, outcome).Observe(seconds)
}
