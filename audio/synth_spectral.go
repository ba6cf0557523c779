package audio

import "math"

// FormantSynth is a glottal pulse train (Rosenberg approximation)
// optionally mixed with breath noise, processed through a parallel
// peaking-EQ formant bank.
type FormantSynth struct {
	Params SynthParams
}

func (s *FormantSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	freq := s.Params.Frequency
	if freq <= 0 {
		freq = 120
	}
	phase := NewPhase(sampleRate, 0)
	noiseSrc := NewWhiteNoise(rng)

	vowel := FormantVowel(s.Params.Vowel)
	if vowel == "" {
		vowel = VowelA
	}
	bank := NewFormantBank(vowel, 0.8, sampleRate)

	for i := 0; i < numSamples; i++ {
		phi := phase.Advance(freq)
		glottal := rosenbergPulse(phi / (2 * math.Pi))
		dry := glottal
		if s.Params.BreathNoise > 0 {
			dry += noiseSrc.Next() * s.Params.BreathNoise
		}
		out[i] = bank.Process(dry)
	}
	normalizePeak(out)
	return out
}

// rosenbergPulse evaluates the Rosenberg glottal pulse approximation
// over a normalised cycle position in [0,1): a rising cosine ramp
// through an open phase fraction, then a falling cosine.
func rosenbergPulse(pos float64) float64 {
	const openQuotient = 0.6
	if pos < openQuotient {
		return 0.5 * (1 - math.Cos(math.Pi*pos/openQuotient))
	}
	closing := (pos - openQuotient) / (1 - openQuotient)
	return math.Cos(math.Pi / 2 * closing)
}

// PhaseDistortionSynth warps the normalised oscillator phase before
// taking its sine.
type PhaseDistortionSynth struct {
	Params SynthParams
}

func (s *PhaseDistortionSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	phase := NewPhase(sampleRate, 0)
	amount := s.Params.DistortionAmount
	if amount == 0 {
		amount = 1
	}

	for i := 0; i < numSamples; i++ {
		phi := phase.Advance(s.Params.Frequency)
		frac := phi / (2 * math.Pi)

		decay := 1.0
		if s.Params.DistortionDecay > 0 {
			t := float64(i) / sampleRate
			decay = math.Exp(-s.Params.DistortionDecay * t)
		}
		a := amount * decay

		warped := warpPhase(frac, s.Params.DistortionKind, a)
		out[i] = math.Sin(warped * 2 * math.Pi)
	}
	normalizePeak(out)
	return out
}

func warpPhase(frac float64, kind string, amount float64) float64 {
	switch kind {
	case "sawtooth":
		// asymmetric compression toward the start of the cycle
		breakpoint := clamp(0.5-0.45*amount, 0.05, 0.95)
		if frac < breakpoint {
			return frac / breakpoint * 0.5
		}
		return 0.5 + (frac-breakpoint)/(1-breakpoint)*0.5
	case "pulse":
		return 0.5 + 0.5*math.Tanh((frac-0.5)*(1+amount*8))/math.Tanh(0.5*(1+amount*8))*0.5
	default: // resonant: power curve
		exp := 1 + amount*4
		return math.Pow(frac, exp)
	}
}

// WavetableSynth interpolates between frames of a 64x256 table using
// bilinear interpolation, with up to 8 symmetric-detune unison voices.
type WavetableSynth struct {
	Params SynthParams
}

const (
	wavetableFrames  = 64
	wavetableSamples = 256
)

func buildWavetable(seed uint64) [wavetableFrames][wavetableSamples]float64 {
	var table [wavetableFrames][wavetableSamples]float64
	for f := 0; f < wavetableFrames; f++ {
		// Each frame blends sine into an increasingly harmonic-rich
		// shape so position-morphing has an audible effect.
		harmonics := 1 + f/4
		for i := 0; i < wavetableSamples; i++ {
			phi := 2 * math.Pi * float64(i) / wavetableSamples
			sample := 0.0
			for h := 1; h <= harmonics; h++ {
				sample += math.Sin(phi*float64(h)) / float64(h)
			}
			table[f][i] = sample
		}
	}
	return table
}

func (s *WavetableSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	table := buildWavetable(0)

	voices := s.Params.UnisonVoices
	if voices < 1 {
		voices = 1
	}
	if voices > 8 {
		voices = 8
	}

	phases := make([]float64, voices)
	detunes := make([]float64, voices)
	for v := 0; v < voices; v++ {
		if voices == 1 {
			detunes[v] = 0
		} else {
			spread := -1.0 + 2.0*float64(v)/float64(voices-1)
			detunes[v] = spread * s.Params.UnisonDetune
		}
	}

	positionFrac := clamp(s.Params.TablePosition, 0, 1)
	frameF := positionFrac * float64(wavetableFrames-1)
	frameLo := int(math.Floor(frameF))
	frameHi := frameLo + 1
	if frameHi >= wavetableFrames {
		frameHi = wavetableFrames - 1
	}
	frameFrac := frameF - float64(frameLo)

	for i := 0; i < numSamples; i++ {
		sample := 0.0
		for v := 0; v < voices; v++ {
			freq := s.Params.Frequency * math.Pow(2, detunes[v]/1200)
			phases[v] += freq / sampleRate
			for phases[v] >= 1 {
				phases[v] -= 1
			}
			sampleF := phases[v] * float64(wavetableSamples)
			sampleLo := int(math.Floor(sampleF)) % wavetableSamples
			sampleHi := (sampleLo + 1) % wavetableSamples
			sampleFrac := sampleF - math.Floor(sampleF)

			loLo := table[frameLo][sampleLo]
			loHi := table[frameLo][sampleHi]
			hiLo := table[frameHi][sampleLo]
			hiHi := table[frameHi][sampleHi]

			loInterp := loLo + (loHi-loLo)*sampleFrac
			hiInterp := hiLo + (hiHi-hiLo)*sampleFrac
			sample += loInterp + (hiInterp-loInterp)*frameFrac
		}
		out[i] = sample / float64(voices)
	}
	normalizePeak(out)
	return out
}
