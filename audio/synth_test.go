package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSynthOscillatorIsDeterministic(t *testing.T) {
	params := SynthParams{Kind: SynthOscillator, Waveform: WaveSine, Frequency: 220}
	rng1 := NewPCG32(42, 1)
	rng2 := NewPCG32(42, 1)

	out1 := BuildSynth(params).Synthesize(512, 44100, rng1)
	out2 := BuildSynth(params).Synthesize(512, 44100, rng2)

	assert.Equal(t, out1, out2)
}

func TestNormalizePeakScalesToUnity(t *testing.T) {
	buf := []float64{0.1, -0.5, 0.25}
	normalizePeak(buf)

	peak := 0.0
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	assert.InDelta(t, 1.0, peak, 1e-9)
}

func TestNormalizePeakLeavesSilenceUntouched(t *testing.T) {
	buf := []float64{0, 0, 0}
	normalizePeak(buf)
	for _, v := range buf {
		assert.Equal(t, 0.0, v)
	}
}

func TestAllSynthKindsProduceFiniteOutput(t *testing.T) {
	kinds := []SynthKind{
		SynthOscillator, SynthMultiOscillator, SynthFM, SynthAM, SynthRingMod,
		SynthNoiseBurst, SynthKarplusStrong, SynthAdditive, SynthMetallic,
		SynthModal, SynthFormant, SynthPhaseDistortion, SynthGranular,
		SynthWavetable, SynthVector, SynthVocoder, SynthPitchedBody,
	}
	for _, kind := range kinds {
		params := SynthParams{Kind: kind, Frequency: 220, CarrierFreq: 220, ModulatorFreq: 110, StartFreq: 200, EndFreq: 60}
		rng := NewPCG32(1, 1)
		out := BuildSynth(params).Synthesize(256, 44100, rng)
		for i, v := range out {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("kind %s produced non-finite sample at %d: %v", kind, i, v)
			}
		}
	}
}
