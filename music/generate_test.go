package music

import (
	"testing"

	"github.com/speccade/speccade/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalTrackerParams(format Format) TrackerParams {
	return TrackerParams{
		Format:   format,
		BPM:      120,
		Speed:    6,
		Channels: 2,
		Instruments: []TrackerInstrument{
			{
				Name:     "lead",
				BaseNote: 60,
				Envelope: audio.ADSR{AttackSeconds: 0.01, DecaySeconds: 0.02, SustainLevel: 0.8, ReleaseSeconds: 0.05},
				Synth:    audio.SynthParams{Kind: audio.SynthOscillator, Waveform: audio.WaveSquare, Frequency: 440},
			},
		},
		Patterns: map[string]TrackerPattern{
			"main": {
				Rows: 8,
				Data: []TrackerNote{
					{Row: 0, Channel: 0, Note: "C4", Inst: 0},
				},
			},
		},
		Arrangement: []ArrangementEntry{{Pattern: "main"}},
		SongName:    "test",
		Title:       "test",
	}
}

func TestGenerateDispatchesXM(t *testing.T) {
	data, err := Generate(minimalTrackerParams(FormatXM), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestGenerateDispatchesIT(t *testing.T) {
	data, err := Generate(minimalTrackerParams(FormatIT), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	_, err := Generate(minimalTrackerParams(Format("mod")), 1)
	assert.Error(t, err)
}
