package audio

import "math"

// KarplusStrongSynth is a short delay line seeded by filtered noise of
// a given colour, fed back at Decay.
type KarplusStrongSynth struct {
	Params SynthParams
}

func (s *KarplusStrongSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	freq := s.Params.Frequency
	if freq <= 0 {
		freq = 110
	}
	delayLen := int(sampleRate / freq)
	if delayLen < 2 {
		delayLen = 2
	}
	buf := make([]float64, delayLen)
	src := NewNoiseSource(s.Params.Blend, rng)
	for i := range buf {
		buf[i] = src.Next()
	}

	decay := s.Params.Decay
	if decay <= 0 {
		decay = 0.995
	}

	pos := 0
	for i := 0; i < numSamples; i++ {
		cur := buf[pos]
		next := (pos + 1) % delayLen
		avg := 0.5 * (cur + buf[next])
		buf[pos] = avg * decay
		out[i] = cur
		pos = next
	}
	normalizePeak(out)
	return out
}

// AdditiveSynth sums an explicit list of (harmonic_number, amplitude,
// phase) sine partials.
type AdditiveSynth struct {
	Params SynthParams
}

func (s *AdditiveSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	fund := s.Params.Frequency
	partials := s.Params.Partials
	if len(partials) == 0 {
		partials = []Partial{{HarmonicNumber: 1, Amplitude: 1}}
	}

	for i := 0; i < numSamples; i++ {
		t := float64(i) / sampleRate
		sample := 0.0
		for _, p := range partials {
			freq := fund * p.HarmonicNumber
			sample += p.Amplitude * math.Sin(2*math.Pi*freq*t+p.Phase)
		}
		out[i] = sample
	}
	normalizePeak(out)
	return out
}

// MetallicSynth sums inharmonic partials for bell/metal timbres.
type MetallicSynth struct {
	Params SynthParams
}

func (s *MetallicSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	fund := s.Params.Frequency
	partials := s.Params.InharmonicPartials
	if len(partials) == 0 {
		ratios := []float64{1, 1.41, 2.0, 2.37, 3.93}
		for _, r := range ratios {
			partials = append(partials, Partial{HarmonicNumber: r, Amplitude: 1 / r})
		}
	}

	for i := 0; i < numSamples; i++ {
		t := float64(i) / sampleRate
		decay := math.Exp(-t * 3.0)
		sample := 0.0
		for _, p := range partials {
			freq := fund * p.HarmonicNumber
			sample += p.Amplitude * math.Sin(2*math.Pi*freq*t+p.Phase) * decay
		}
		out[i] = sample
	}
	normalizePeak(out)
	return out
}

// ModalSynth is a bank of per-mode oscillators with exp(-decay*t)
// amplitude, excited by an impulse, a short noise burst, or a pluck.
type ModalSynth struct {
	Params SynthParams
}

func (s *ModalSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	modes := s.Params.Modes
	if len(modes) == 0 {
		modes = []Mode{{FrequencyHz: s.Params.Frequency, Decay: 4, Amplitude: 1}}
	}

	// Excitation envelope applied as an amplitude scale, per spec's
	// simplified "amplitude scaling by excitation envelope" sense.
	excitation := make([]float64, numSamples)
	switch s.Params.Excitation {
	case "noise_burst":
		burstLen := int(0.005 * sampleRate)
		src := NewWhiteNoise(rng)
		for i := 0; i < numSamples && i < burstLen; i++ {
			excitation[i] = src.Next()
		}
	case "pluck":
		if numSamples > 0 {
			excitation[0] = 1
		}
		burstLen := int(0.002 * sampleRate)
		src := NewWhiteNoise(rng)
		for i := 1; i < numSamples && i < burstLen+1; i++ {
			excitation[i] = 0.5 * src.Next()
		}
	default: // impulse
		if numSamples > 0 {
			excitation[0] = 1
		}
	}

	initialPhases := make([]float64, len(modes))
	for i := range modes {
		initialPhases[i] = rng.Uniform(0, 2*math.Pi)
	}

	excSum := 0.0
	for i := 0; i < numSamples; i++ {
		excSum += excitation[i]
		t := float64(i) / sampleRate
		sample := 0.0
		for m, mode := range modes {
			amp := mode.Amplitude * math.Exp(-mode.Decay*t) * excSum
			sample += amp * math.Sin(2*math.Pi*mode.FrequencyHz*t+initialPhases[m])
		}
		out[i] = sample
	}
	normalizePeak(out)
	return out
}
