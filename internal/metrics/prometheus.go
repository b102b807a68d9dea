package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Routing metrics
var (
	LinesConsumedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lines_consumed_total",
			Help: "Total number of input lines consumed",
		},
	)

	LinesRoutedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_lines_routed_total",
			Help: "Total number of payload lines routed per channel",
		},
		[]string{"channel"},
	)

	FallbackLinesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fallback_lines_total",
			Help: "Total number of lines redirected to the fallback file",
		},
	)
)

// Channel file metrics
var (
	BytesWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_bytes_written_total",
			Help: "Total bytes appended per channel file",
		},
		[]string{"channel"},
	)

	RotationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_file_rotations_total",
			Help: "Total number of hour-boundary file rotations per channel",
		},
		[]string{"channel"},
	)

	WriteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_write_errors_total",
			Help: "Total number of failed channel file writes",
		},
		[]string{"channel"},
	)
)
