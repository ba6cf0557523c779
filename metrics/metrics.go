// Package metrics exposes optional Prometheus collectors for
// generate.Pipeline. It never touches the filesystem or network itself
// -- only in-process counters a host process registers and serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the interface generate.Pipeline calls at the same points
// it logs. A nil Recorder is valid -- the pipeline checks before every
// call -- so metrics stay entirely optional.
type Recorder interface {
	ObserveGenerateDuration(assetType string, seconds float64)
	IncGenerateTotal(assetType string, ok bool)
	IncValidationError(code string)
}

// Prometheus is the default Recorder, registering its collectors on
// construction via promauto the same way the teacher's monitoring
// middleware does.
type Prometheus struct {
	generateDuration  *prometheus.HistogramVec
	generateTotal     *prometheus.CounterVec
	validationErrors  *prometheus.CounterVec
}

// NewPrometheus constructs the package's collectors and registers them
// against reg. Pass prometheus.DefaultRegisterer for a host process
// that serves /metrics from the default registry; tests and multiple
// Pipeline instances in one process should each pass a fresh
// prometheus.NewRegistry() to avoid duplicate-registration panics.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		generateDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "speccade_generate_duration_seconds",
				Help:    "Duration of a single asset generation run.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"asset_type"},
		),
		generateTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speccade_generate_total",
				Help: "Total number of generation runs, labeled by outcome.",
			},
			[]string{"ok"},
		),
		validationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speccade_validation_errors_total",
				Help: "Total number of validation errors, labeled by error code.",
			},
			[]string{"code"},
		),
	}
}

func (p *Prometheus) ObserveGenerateDuration(assetType string, seconds float64) {
	p.generateDuration.WithLabelValues(assetType).Observe(seconds)
}

func (p *Prometheus) IncGenerateTotal(assetType string, ok bool) {
	status := "false"
	if ok {
		status = "true"
	}
	p.generateTotal.WithLabelValues(status).Inc()
}

func (p *Prometheus) IncValidationError(code string) {
	p.validationErrors.WithLabelValues(code).Inc()
}
