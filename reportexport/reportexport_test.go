package reportexport_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/report"
	"github.com/speccade/speccade/reportexport"
	"github.com/speccade/speccade/spec"
)

func sampleReport(withIssues bool) report.Report {
	s := spec.NewBuilder("laser-beep", spec.AssetAudio).
		Seed(1).
		License("CC0-1.0").
		AddOutput(spec.OutputSpec{Kind: spec.OutputPrimary, Format: spec.FormatWAV, Path: "beep.wav"}).
		Recipe("audio_v1", map[string]any{}).
		Build()

	now := time.Now()
	builder := report.NewBuilder(s, "spechash123", "recipehash456", "speccade-test", "x86_64-test", uuid.New(), now)
	builder.AddOutput(report.OutputRecord{Kind: spec.OutputPrimary, Format: spec.FormatWAV, Path: "beep.wav", Hash: "abc123"})
	if withIssues {
		builder.AddErrors([]*specerr.SpecError{{Code: specerr.CodeBadSpecVersion, Message: "bad version", Path: "spec_version"}})
		builder.AddWarnings([]*specerr.Warning{{Code: specerr.WarnEmptyLicense, Message: "license is empty", Path: "license"}})
	}
	return builder.Build(now.Add(5 * time.Millisecond))
}

func TestXLSXRendersWithoutError(t *testing.T) {
	data, err := reportexport.XLSX(sampleReport(false))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// XLSX files are zip archives; a real workbook begins with the zip magic.
	assert.Equal(t, "PK", string(data[0:2]))
}

func TestXLSXRendersIssuesSheet(t *testing.T) {
	data, err := reportexport.XLSX(sampleReport(true))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestPDFRendersWithoutError(t *testing.T) {
	data, err := reportexport.PDF(sampleReport(false))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[0:4]))
}

func TestPDFRendersIssues(t *testing.T) {
	data, err := reportexport.PDF(sampleReport(true))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
