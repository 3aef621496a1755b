// Package metrics provides Prometheus metrics for the export service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DevicesExported tracks devices rendered by output format
	DevicesExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cimhub",
			Subsystem: "export",
			Name:      "devices_total",
			Help:      "Total number of transformer codes rendered by format",
		},
		[]string{"format"},
	)

	// DeviceErrors tracks devices skipped by error kind
	DeviceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cimhub",
			Subsystem: "export",
			Name:      "device_errors_total",
			Help:      "Total number of devices skipped during export by error kind",
		},
		[]string{"kind"},
	)

	// BuildDuration tracks how long loading and deriving a batch takes
	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cimhub",
			Subsystem: "export",
			Name:      "build_duration_seconds",
			Help:      "Duration of export batch builds in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	// LoginsTotal tracks operator logins by provider and outcome
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cimhub",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of operator login attempts",
		},
		[]string{"provider", "status"},
	)
)
