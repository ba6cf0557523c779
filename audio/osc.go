package audio

import "math"

// Waveform enumerates the oscillator shapes in §4.3.
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveSaw      Waveform = "saw"
	WaveSquare   Waveform = "square"
	WaveTriangle Waveform = "triangle"
	WavePulse    Waveform = "pulse"
	WaveNoise    Waveform = "noise"
)

// Phase is a phase accumulator, advanced in double precision and
// wrapped to [0, 2*pi) by explicit subtraction to avoid the precision
// loss of a modulo against a tiny remainder.
type Phase struct {
	sampleRate float64
	value      float64
}

// NewPhase creates a phase accumulator at the given sample rate,
// starting at the given phase in [0, 2*pi).
func NewPhase(sampleRate, initial float64) *Phase {
	return &Phase{sampleRate: sampleRate, value: wrapPhase(initial)}
}

// Advance moves the phase forward by one sample at frequency freq (Hz)
// and returns the phase value before advancing.
func (p *Phase) Advance(freq float64) float64 {
	cur := p.value
	p.value += 2 * math.Pi * freq / p.sampleRate
	for p.value >= 2*math.Pi {
		p.value -= 2 * math.Pi
	}
	for p.value < 0 {
		p.value += 2 * math.Pi
	}
	return cur
}

// Value returns the current phase without advancing.
func (p *Phase) Value() float64 { return p.value }

func wrapPhase(phi float64) float64 {
	for phi >= 2*math.Pi {
		phi -= 2 * math.Pi
	}
	for phi < 0 {
		phi += 2 * math.Pi
	}
	return phi
}

// WaveformAt evaluates a waveform at phase phi (radians, [0, 2*pi))
// with the given pulse duty cycle (ignored for all but pulse; square
// is always the sign of sin(phi)).
func WaveformAt(wave Waveform, phi float64, duty float64) float64 {
	frac := phi / (2 * math.Pi)
	switch wave {
	case WaveSine:
		return math.Sin(phi)
	case WaveSaw:
		return 2*frac - 1
	case WaveSquare:
		if math.Sin(phi) >= 0 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 2*math.Abs(2*frac-1) - 1
	case WavePulse:
		if duty <= 0 {
			duty = 0.5
		}
		if frac < duty {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// CurveKind enumerates frequency sweep interpolation curves.
type CurveKind string

const (
	CurveLinear      CurveKind = "linear"
	CurveExponential CurveKind = "exponential"
	CurveLog         CurveKind = "log"
)

// FrequencySweep interpolates between a start and end frequency over a
// normalised time parameter t in [0,1].
type FrequencySweep struct {
	Start float64
	End   float64
	Curve CurveKind
}

// At returns the instantaneous frequency at normalised time t in [0,1].
func (s FrequencySweep) At(t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	switch s.Curve {
	case CurveExponential:
		start, end := s.Start, s.End
		if start <= 0 {
			start = 1e-6
		}
		if end <= 0 {
			end = 1e-6
		}
		return start * math.Pow(end/start, t)
	case CurveLog:
		start, end := s.Start, s.End
		if start <= 0 {
			start = 1e-6
		}
		if end <= 0 {
			end = 1e-6
		}
		logStart, logEnd := math.Log(start), math.Log(end)
		return math.Exp(logStart + (logEnd-logStart)*t)
	default: // linear
		return s.Start + (s.End-s.Start)*t
	}
}
