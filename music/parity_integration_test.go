package music_test

import (
	"testing"

	"github.com/speccade/speccade/audio"
	"github.com/speccade/speccade/music"
	"github.com/speccade/speccade/music/it"
	"github.com/speccade/speccade/music/xm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sharedParams() music.TrackerParams {
	vol := 40
	return music.TrackerParams{
		BPM:      130,
		Speed:    4,
		Channels: 3,
		Instruments: []music.TrackerInstrument{
			{
				Name:     "bass",
				BaseNote: 36,
				Envelope: audio.ADSR{AttackSeconds: 0.005, DecaySeconds: 0.03, SustainLevel: 0.6, ReleaseSeconds: 0.08},
				Synth:    audio.SynthParams{Kind: audio.SynthOscillator, Waveform: audio.WaveSaw, Frequency: 110},
			},
			{
				Name:     "lead",
				BaseNote: 60,
				Envelope: audio.ADSR{AttackSeconds: 0.01, DecaySeconds: 0.05, SustainLevel: 0.7, ReleaseSeconds: 0.1},
				Synth:    audio.SynthParams{Kind: audio.SynthOscillator, Waveform: audio.WaveSquare, Frequency: 440},
			},
		},
		Patterns: map[string]music.TrackerPattern{
			"verse": {
				Rows: 32,
				Data: []music.TrackerNote{
					{Row: 0, Channel: 0, Note: "C2", Inst: 0},
					{Row: 0, Channel: 1, Note: "C4", Inst: 1, Vol: &vol},
					{Row: 16, Channel: 0, Note: "G2", Inst: 0},
				},
			},
			"chorus": {
				Rows: 16,
				Data: []music.TrackerNote{
					{Row: 0, Channel: 2, Note: "E4", Inst: 1},
				},
			},
		},
		Arrangement: []music.ArrangementEntry{
			{Pattern: "verse", Repeat: 2},
			{Pattern: "chorus"},
			{Pattern: "verse"},
		},
		SongName: "roundtrip",
		Title:    "roundtrip",
	}
}

func TestXMAndITStructurallyAgree(t *testing.T) {
	params := sharedParams()

	xmBytes, err := xm.Serialize(params, 42)
	require.NoError(t, err)
	itBytes, err := it.Serialize(params, 42)
	require.NoError(t, err)

	xmSummary, err := xm.Validate(xmBytes)
	require.NoError(t, err)
	itSummary, err := it.Validate(itBytes)
	require.NoError(t, err)

	report := music.CheckParityDetailed(xmSummary, itSummary)
	assert.True(t, report.IsParity, "%+v", report.Mismatches)
}
