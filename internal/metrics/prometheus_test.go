package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsRegistered(t *testing.T) {
	// promauto registers metrics automatically, so this test verifies
	// the package initializes without panics or duplicate registration.

	tests := []struct {
		name   string
		metric prometheus.Collector
	}{
		{"LinesConsumedTotal", LinesConsumedTotal},
		{"LinesRoutedTotal", LinesRoutedTotal},
		{"FallbackLinesTotal", FallbackLinesTotal},
		{"BytesWrittenTotal", BytesWrittenTotal},
		{"RotationsTotal", RotationsTotal},
		{"WriteErrorsTotal", WriteErrorsTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s is nil", tt.name)
			}
		})
	}
}

func TestRoutingCounters(t *testing.T) {
	LinesConsumedTotal.Inc()
	LinesRoutedTotal.WithLabelValues("app").Inc()
	FallbackLinesTotal.Inc()
	// No panic means labels are valid
}

func TestFileCounters(t *testing.T) {
	BytesWrittenTotal.WithLabelValues("app").Add(42)
	RotationsTotal.WithLabelValues("app").Inc()
	WriteErrorsTotal.WithLabelValues("app").Inc()
}
