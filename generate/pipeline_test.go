package generate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speccade/speccade/audio"
	"github.com/speccade/speccade/generate"
	"github.com/speccade/speccade/music"
	"github.com/speccade/speccade/spec"
)

func newPipeline(t *testing.T) *generate.Pipeline {
	t.Helper()
	profile, ok := spec.BudgetProfileByName("default")
	require.True(t, ok)
	p := generate.NewPipeline(profile, "speccade-test", "test-triple", t.TempDir())
	p.Log = p.Log.Level(zerolog.Disabled)
	return p
}

func audioSpec() spec.Spec {
	params := audio.Params{
		DurationSeconds: 0.02,
		SampleRate:      8000,
		Layers: []audio.Layer{
			{Synth: audio.SynthParams{Kind: audio.SynthOscillator, Waveform: audio.WaveSine, Frequency: 440}, Volume: 1},
		},
	}
	return spec.NewBuilder("laser-beep", spec.AssetAudio).
		Seed(1).
		License("CC0-1.0").
		AddOutput(spec.OutputSpec{Kind: spec.OutputPrimary, Format: spec.FormatWAV, Path: "beep.wav"}).
		Recipe("audio_v1", params).
		Build()
}

func trackerSpec() spec.Spec {
	params := music.TrackerParams{
		Format:   music.FormatXM,
		BPM:      120,
		Speed:    6,
		Channels: 2,
		Instruments: []music.TrackerInstrument{
			{
				Name:     "lead",
				BaseNote: 60,
				Envelope: audio.ADSR{AttackSeconds: 0.01, DecaySeconds: 0.02, SustainLevel: 0.8, ReleaseSeconds: 0.05},
				Synth:    audio.SynthParams{Kind: audio.SynthOscillator, Waveform: audio.WaveSquare, Frequency: 440},
			},
		},
		Patterns: map[string]music.TrackerPattern{
			"main": {Rows: 8, Data: []music.TrackerNote{{Row: 0, Channel: 0, Note: "C4", Inst: 0}}},
		},
		Arrangement: []music.ArrangementEntry{{Pattern: "main"}},
		SongName:    "test",
		Title:       "test",
	}
	return spec.NewBuilder("test-song", spec.AssetMusic).
		Seed(1).
		License("CC0-1.0").
		AddOutput(spec.OutputSpec{Kind: spec.OutputPrimary, Format: spec.FormatXM, Path: "song.xm"}).
		Recipe("music.tracker_song_v1", params).
		Build()
}

func TestPipelineRunGeneratesAudio(t *testing.T) {
	p := newPipeline(t)
	res, err := p.Run(context.Background(), audioSpec())
	require.NoError(t, err)
	require.True(t, res.Manifest.OK)
	require.Len(t, res.Wrote, 1)

	data, err := os.ReadFile(res.Wrote[0])
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, filepath.Base(res.Wrote[0]), "beep.wav")
}

func TestPipelineRunGeneratesTracker(t *testing.T) {
	p := newPipeline(t)
	res, err := p.Run(context.Background(), trackerSpec())
	require.NoError(t, err)
	require.True(t, res.Manifest.OK)
	require.Len(t, res.Wrote, 1)

	data, err := os.ReadFile(res.Wrote[0])
	require.NoError(t, err)
	assert.Equal(t, "Extended Module: ", string(data[0:18]))
}

func TestPipelineRunFailsValidationWithoutFlushingOutput(t *testing.T) {
	p := newPipeline(t)
	s := audioSpec()
	s.Outputs = nil // drop the required primary output

	res, err := p.Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, res.Manifest.OK)
	assert.Empty(t, res.Wrote)
	assert.NotEmpty(t, res.Manifest.Errors)

	entries, err := os.ReadDir(p.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPipelineRunIsDeterministic(t *testing.T) {
	p := newPipeline(t)
	r1, err := p.Run(context.Background(), audioSpec())
	require.NoError(t, err)
	r2, err := p.Run(context.Background(), audioSpec())
	require.NoError(t, err)
	assert.Equal(t, r1.Manifest.Outputs[0].Hash, r2.Manifest.Outputs[0].Hash)
}
