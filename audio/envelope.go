package audio

// CurveShape selects linear or exponential interpolation for an ADSR
// segment.
type CurveShape string

const (
	ShapeLinear      CurveShape = "linear"
	ShapeExponential CurveShape = "exponential"
)

// ADSR describes a four-segment amplitude envelope in seconds.
type ADSR struct {
	AttackSeconds  float64
	DecaySeconds   float64
	SustainLevel   float64
	ReleaseSeconds float64
	Shape          CurveShape
}

// Render produces a length-numSamples envelope curve in [0,1].
// Sustain holds until release onset at numSamples-releaseSamples;
// release interpolates from the current level to zero.
func (a ADSR) Render(numSamples int, sampleRate float64) []float64 {
	out := make([]float64, numSamples)
	attackSamples := int(a.AttackSeconds * sampleRate)
	decaySamples := int(a.DecaySeconds * sampleRate)
	releaseSamples := int(a.ReleaseSeconds * sampleRate)

	releaseStart := numSamples - releaseSamples
	if releaseStart < attackSamples+decaySamples {
		releaseStart = attackSamples + decaySamples
	}
	if releaseStart > numSamples {
		releaseStart = numSamples
	}

	for i := 0; i < numSamples; i++ {
		switch {
		case i < attackSamples && attackSamples > 0:
			t := float64(i) / float64(attackSamples)
			out[i] = a.shaped(0, 1, t)
		case i < attackSamples+decaySamples && decaySamples > 0:
			t := float64(i-attackSamples) / float64(decaySamples)
			out[i] = a.shaped(1, a.SustainLevel, t)
		case i < releaseStart:
			out[i] = a.SustainLevel
		default:
			if releaseSamples <= 0 {
				out[i] = a.SustainLevel
				continue
			}
			t := float64(i-releaseStart) / float64(releaseSamples)
			if t > 1 {
				t = 1
			}
			out[i] = a.shaped(a.SustainLevel, 0, t)
		}
	}
	return out
}

func (a ADSR) shaped(from, to, t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if a.Shape == ShapeExponential {
		t = t * t
	}
	return from + (to-from)*t
}

// LFOWaveform enumerates the low-frequency oscillator shapes in §4.6.
type LFOWaveform string

const (
	LFOSine         LFOWaveform = "sine"
	LFOTriangle     LFOWaveform = "triangle"
	LFOSaw          LFOWaveform = "saw"
	LFOSquare       LFOWaveform = "square"
	LFOSampleAndHold LFOWaveform = "sample_and_hold"
)

// LFO is a low-frequency modulator parameterised by waveform, rate,
// depth and initial phase.
type LFO struct {
	Waveform     LFOWaveform
	RateHz       float64
	Depth        float64
	InitialPhase float64
}

// Render produces a length-numSamples curve in [-depth, depth] (sine/
// triangle/saw/square) or a depth-scaled held random value refreshed
// every 1/rate seconds (sample_and_hold, deterministic via rng).
func (l LFO) Render(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	phase := NewPhase(sampleRate, l.InitialPhase)

	if l.Waveform == LFOSampleAndHold {
		holdSamples := int(sampleRate / maxFloat(l.RateHz, 0.001))
		if holdSamples < 1 {
			holdSamples = 1
		}
		current := rng.Signed()
		for i := 0; i < numSamples; i++ {
			if i > 0 && i%holdSamples == 0 {
				current = rng.Signed()
			}
			out[i] = current * l.Depth
		}
		return out
	}

	for i := 0; i < numSamples; i++ {
		phi := phase.Advance(l.RateHz)
		var wave Waveform
		switch l.Waveform {
		case LFOTriangle:
			wave = WaveTriangle
		case LFOSaw:
			wave = WaveSaw
		case LFOSquare:
			wave = WaveSquare
		default:
			wave = WaveSine
		}
		out[i] = WaveformAt(wave, phi, 0.5) * l.Depth
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
