package audio

import "math"

// OscillatorSynth is a single phase-accumulator oscillator with
// optional duty cycle, detune, and frequency sweep.
type OscillatorSynth struct {
	Params SynthParams
}

func (s *OscillatorSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)

	if s.Params.Waveform == WaveNoise {
		src := NewWhiteNoise(rng)
		for i := range out {
			out[i] = src.Next()
		}
		return out
	}

	freq := s.Params.Frequency * math.Pow(2, s.Params.DetuneCents/1200)
	phase := NewPhase(sampleRate, 0)

	for i := 0; i < numSamples; i++ {
		f := freq
		if s.Params.Sweep != nil {
			t := float64(i) / float64(numSamples)
			sweep := FrequencySweep{Start: freq, End: s.Params.Sweep.End, Curve: s.Params.Sweep.Curve}
			f = sweep.At(t)
		}
		phi := phase.Advance(f)
		out[i] = WaveformAt(s.Params.Waveform, phi, s.Params.Duty)
	}
	normalizePeak(out)
	return out
}

// MultiOscillatorSynth sums multiple detuned oscillator voices.
type MultiOscillatorSynth struct {
	Params SynthParams
}

func (s *MultiOscillatorSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	voices := s.Params.Oscillators
	if len(voices) == 0 {
		voices = []OscillatorVoice{{Waveform: s.Params.Waveform, Weight: 1}}
	}

	totalWeight := 0.0
	phases := make([]*Phase, len(voices))
	for i, v := range voices {
		phases[i] = NewPhase(sampleRate, 0)
		w := v.Weight
		if w == 0 {
			w = 1
		}
		totalWeight += w
	}
	if totalWeight == 0 {
		totalWeight = 1
	}

	for i := 0; i < numSamples; i++ {
		sample := 0.0
		for j, v := range voices {
			freq := s.Params.Frequency * math.Pow(2, v.DetuneCents/1200)
			phi := phases[j].Advance(freq)
			w := v.Weight
			if w == 0 {
				w = 1
			}
			sample += WaveformAt(v.Waveform, phi, s.Params.Duty) * w
		}
		out[i] = sample / totalWeight
	}
	normalizePeak(out)
	return out
}

// FMSynth modulates a carrier phase accumulator by a modulator oscillator.
type FMSynth struct {
	Params SynthParams
}

func (s *FMSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	carrierPhase := 0.0
	modulatorPhase := NewPhase(sampleRate, 0)

	for i := 0; i < numSamples; i++ {
		modPhi := modulatorPhase.Advance(s.Params.ModulatorFreq)
		modVal := math.Sin(modPhi)
		instFreq := s.Params.CarrierFreq + modVal*s.Params.FMIndex*s.Params.ModulatorFreq
		carrierPhase += 2 * math.Pi * instFreq / sampleRate
		out[i] = math.Sin(carrierPhase)
	}
	normalizePeak(out)
	return out
}

// AMSynth multiplies a carrier by a modulator.
type AMSynth struct {
	Params SynthParams
}

func (s *AMSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	carrier := NewPhase(sampleRate, 0)
	modulator := NewPhase(sampleRate, 0)

	for i := 0; i < numSamples; i++ {
		c := math.Sin(carrier.Advance(s.Params.CarrierFreq))
		m := math.Sin(modulator.Advance(s.Params.ModulatorFreq))
		depth := s.Params.AMDepth
		if depth == 0 {
			depth = 1
		}
		out[i] = c * (1 - depth + depth*(0.5*(m+1)))
	}
	normalizePeak(out)
	return out
}

// RingModSynth mixes the product of carrier and modulator with the dry
// carrier.
type RingModSynth struct {
	Params SynthParams
}

func (s *RingModSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	carrier := NewPhase(sampleRate, 0)
	modulator := NewPhase(sampleRate, 0)

	for i := 0; i < numSamples; i++ {
		c := math.Sin(carrier.Advance(s.Params.CarrierFreq))
		m := math.Sin(modulator.Advance(s.Params.ModulatorFreq))
		out[i] = 0.5*c + 0.5*(c*m)
	}
	normalizePeak(out)
	return out
}

// NoiseBurstSynth generates colored noise (white/pink/brown).
type NoiseBurstSynth struct {
	Params SynthParams
}

func (s *NoiseBurstSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	src := NewNoiseSource(s.Params.NoiseColor, rng)
	for i := range out {
		out[i] = src.Next()
	}
	normalizePeak(out)
	return out
}
