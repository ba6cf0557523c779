package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/spec"
)

func sampleSpec() spec.Spec {
	return spec.Spec{
		SpecVersion: 1,
		AssetID:     "laser-beep",
		AssetType:   spec.AssetAudio,
		License:     "CC0-1.0",
		Seed:        7,
		Outputs:     []spec.OutputSpec{{Kind: spec.OutputPrimary, Format: spec.FormatWAV, Path: "out.wav"}},
	}
}

func TestBuildOKReport(t *testing.T) {
	start := time.Unix(1000, 0)
	finish := start.Add(250 * time.Millisecond)

	b := NewBuilder(sampleSpec(), "spechash", "recipehash", "speccade-dev", "x86_64-unknown-linux-gnu", uuid.Nil, start)
	b.AddOutput(OutputRecord{Kind: spec.OutputPrimary, Format: spec.FormatWAV, Path: "out.wav", Hash: "abc123"})

	r := b.Build(finish)

	assert.True(t, r.OK)
	assert.Equal(t, 1, r.ReportVersion)
	assert.Equal(t, "laser-beep", r.AssetID)
	assert.Equal(t, int64(250), r.DurationMillis)
	assert.Len(t, r.Outputs, 1)
	assert.Empty(t, r.Errors)
}

func TestBuildFailingReport(t *testing.T) {
	start := time.Unix(1000, 0)
	b := NewBuilder(sampleSpec(), "spechash", "recipehash", "speccade-dev", "x86_64-unknown-linux-gnu", uuid.Nil, start)
	b.AddErrors([]*specerr.SpecError{{Code: specerr.CodeBudgetDuration, Message: "too long", Path: "recipe.params.duration_seconds"}})

	r := b.Build(start)

	assert.False(t, r.OK)
	assert.Len(t, r.Errors, 1)
	assert.Equal(t, specerr.CodeBudgetDuration, r.Errors[0].Code)
}

func TestWithVariantStampsParentHash(t *testing.T) {
	start := time.Unix(1000, 0)
	b := NewBuilder(sampleSpec(), "spechash", "recipehash", "speccade-dev", "x86_64-unknown-linux-gnu", uuid.Nil, start)
	b.WithVariant("loud", "basehash")

	r := b.Build(start)

	assert.Equal(t, "loud", r.VariantID)
	assert.Equal(t, "basehash", r.BaseSpecHash)
}
