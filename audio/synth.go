package audio

import "math"

// Synth is the shared contract every synthesis variant implements
// (§4.5). Output is mono, normalised so peak <= 1.0 unless the variant
// documents otherwise; given identical (params, numSamples, sampleRate,
// rng state), output is bit-identical.
type Synth interface {
	Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64
}

// BuildSynth dispatches on params.Kind to construct the concrete Synth
// value. This is the closed switch named in spec §9 — no open
// inheritance, just a tagged variant.
func BuildSynth(params SynthParams) Synth {
	switch params.Kind {
	case SynthMultiOscillator:
		return &MultiOscillatorSynth{Params: params}
	case SynthFM:
		return &FMSynth{Params: params}
	case SynthAM:
		return &AMSynth{Params: params}
	case SynthRingMod:
		return &RingModSynth{Params: params}
	case SynthNoiseBurst:
		return &NoiseBurstSynth{Params: params}
	case SynthKarplusStrong:
		return &KarplusStrongSynth{Params: params}
	case SynthAdditive:
		return &AdditiveSynth{Params: params}
	case SynthMetallic:
		return &MetallicSynth{Params: params}
	case SynthModal:
		return &ModalSynth{Params: params}
	case SynthFormant:
		return &FormantSynth{Params: params}
	case SynthPhaseDistortion:
		return &PhaseDistortionSynth{Params: params}
	case SynthGranular:
		return &GranularSynth{Params: params}
	case SynthWavetable:
		return &WavetableSynth{Params: params}
	case SynthVector:
		return &VectorSynth{Params: params}
	case SynthVocoder:
		return &VocoderSynth{Params: params}
	case SynthPitchedBody:
		return &PitchedBodySynth{Params: params}
	default:
		return &OscillatorSynth{Params: params}
	}
}

// normalizePeak scales buf in place so its peak absolute value is 1.0,
// unless it is already silent.
func normalizePeak(buf []float64) {
	peak := 0.0
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak <= 1e-12 {
		return
	}
	scale := 1.0 / peak
	for i := range buf {
		buf[i] *= scale
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
