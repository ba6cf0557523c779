package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecordsGenerateTotal(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())

	p.IncGenerateTotal("audio", true)
	p.IncGenerateTotal("audio", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(p.generateTotal.WithLabelValues("true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.generateTotal.WithLabelValues("false")))
}

func TestPrometheusRecordsValidationErrors(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())

	p.IncValidationError("E001")
	p.IncValidationError("E001")

	assert.Equal(t, float64(2), testutil.ToFloat64(p.validationErrors.WithLabelValues("E001")))
}
