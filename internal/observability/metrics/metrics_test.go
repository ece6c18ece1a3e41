package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestChatMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveTurn("PRODUCT_SEARCH")
	m.ObserveTurn("PRODUCT_SEARCH")
	m.ObserveTurn("GREETING")
	m.ObserveFallback()
	m.ObserveExternalCall("catalog", "ok", 0.25)

	if got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("PRODUCT_SEARCH")); got != 2 {
		t.Fatalf("turns_total{PRODUCT_SEARCH} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.fallbackTotal); got != 1 {
		t.Fatalf("fallback_total = %v, want 1", got)
	}
}

func TestChatMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)
	m.ObserveTurn("GREETING")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestChatMetricsNilSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveTurn("GREETING")
	m.ObserveFallback()
	m.ObserveExternalCall("catalog", "error", 0.1)
}
