package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleParams() Params {
	return Params{
		DurationSeconds: 0.01,
		SampleRate:      8000,
		Layers: []Layer{
			{
				Synth:    SynthParams{Kind: SynthOscillator, Waveform: WaveSine, Frequency: 440},
				Envelope: ADSR{SustainLevel: 1},
				Volume:   1,
			},
		},
	}
}

func TestGenerateProducesValidWAV(t *testing.T) {
	data, err := Generate(simpleParams(), 1)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(simpleParams(), 42)
	require.NoError(t, err)
	b, err := Generate(simpleParams(), 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateDiffersBySeedWhenRNGIsExercised(t *testing.T) {
	p := simpleParams()
	p.Layers[0].Synth.Kind = SynthNoiseBurst
	a, err := Generate(p, 1)
	require.NoError(t, err)
	b, err := Generate(p, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateRejectsZeroDuration(t *testing.T) {
	p := simpleParams()
	p.DurationSeconds = 0
	_, err := Generate(p, 1)
	assert.Error(t, err)
}

func TestGenerateAppliesMasterFilterAndWidener(t *testing.T) {
	p := simpleParams()
	p.MasterFilter = &FilterParams{Kind: FilterLowpass, Cutoff: 1000, Q: 0.707}
	p.StereoWidener = &StereoWidenerParams{Mode: WidenerSimple, Width: 1.5}
	data, err := Generate(p, 7)
	require.NoError(t, err)
	assert.Greater(t, len(data), 44)
}

func TestGenerateWithLoopPoints(t *testing.T) {
	p := simpleParams()
	p.DurationSeconds = 0.1
	p.GenerateLoopPoints = true
	p.LoopConfigValue = &LoopConfig{SnapToZeroCrossing: true, CrossfadeMs: 1}
	data, err := Generate(p, 3)
	require.NoError(t, err)
	assert.Greater(t, len(data), 44)
}
