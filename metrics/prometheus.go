// Package metrics exports registry service metrics to Prometheus.
package metrics

import (
	"context"
	"strings"

	"github.com/goliatone/go-frontrun/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	counterSuffix   = ".total"
	durationSuffix  = ".duration_ms"
	operationPrefix = "frontrun."
)

var operationLabels = []string{"operation", "status", "error_code"}

// PrometheusRecorder maps the service's frontrun.<operation>.total and
// frontrun.<operation>.duration_ms samples onto two labelled vectors.
// Samples with any other name are dropped.
type PrometheusRecorder struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewPrometheusRecorder registers its collectors on registerer. A nil
// registerer falls back to the default registry.
func NewPrometheusRecorder(registerer prometheus.Registerer) *PrometheusRecorder {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)
	return &PrometheusRecorder{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontrun",
			Subsystem: "registry",
			Name:      "operations_total",
			Help:      "Total registry operations by outcome",
		}, operationLabels),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "frontrun",
			Subsystem: "registry",
			Name:      "operation_duration_milliseconds",
			Help:      "Registry operation duration",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, operationLabels),
	}
}

func (r *PrometheusRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value <= 0 {
		return
	}
	operation, ok := operationFromName(name, counterSuffix)
	if !ok {
		return
	}
	r.operations.With(labelsFor(operation, tags)).Add(float64(value))
}

func (r *PrometheusRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	operation, ok := operationFromName(name, durationSuffix)
	if !ok {
		return
	}
	r.durations.With(labelsFor(operation, tags)).Observe(value)
}

func operationFromName(name string, suffix string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if !strings.HasPrefix(trimmed, operationPrefix) || !strings.HasSuffix(trimmed, suffix) {
		return "", false
	}
	operation := strings.TrimSuffix(strings.TrimPrefix(trimmed, operationPrefix), suffix)
	if operation == "" {
		return "", false
	}
	return operation, true
}

func labelsFor(operation string, tags map[string]string) prometheus.Labels {
	labels := prometheus.Labels{
		"operation":  operation,
		"status":     "unknown",
		"error_code": "",
	}
	if status := strings.TrimSpace(tags["status"]); status != "" {
		labels["status"] = status
	}
	if code := strings.TrimSpace(tags["error_code"]); code != "" {
		labels["error_code"] = code
	}
	return labels
}

var _ core.MetricsRecorder = (*PrometheusRecorder)(nil)
