package audio

import "math"

// GranularSynth scatters short windowed grains of noise or a tone at
// GrainDensityHz, each GrainSizeMs long, with optional timing jitter.
type GranularSynth struct {
	Params SynthParams
}

func (s *GranularSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)

	grainSizeMs := s.Params.GrainSizeMs
	if grainSizeMs <= 0 {
		grainSizeMs = 50
	}
	densityHz := s.Params.GrainDensityHz
	if densityHz <= 0 {
		densityHz = 20
	}
	grainLen := int(grainSizeMs / 1000 * sampleRate)
	if grainLen < 1 {
		grainLen = 1
	}
	period := sampleRate / densityHz

	src := NewWhiteNoise(rng)
	freq := s.Params.Frequency

	pos := 0.0
	for pos < float64(numSamples) {
		jitter := 0.0
		if s.Params.GrainJitter > 0 {
			jitter = rng.Signed() * s.Params.GrainJitter * period
		}
		start := int(pos + jitter)
		for i := 0; i < grainLen; i++ {
			idx := start + i
			if idx < 0 || idx >= numSamples {
				continue
			}
			window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(grainLen)))
			var sample float64
			if freq > 0 {
				sample = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
			} else {
				sample = src.Next()
			}
			out[idx] += sample * window
		}
		pos += period
	}
	normalizePeak(out)
	return out
}

// VectorSynth crossfades between multiple source synths following a
// 2D path (path_x, path_y sampled over the render duration), mixing
// sources by proximity to the current path position.
type VectorSynth struct {
	Params SynthParams
}

func (s *VectorSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)
	sources := s.Params.Sources
	if len(sources) == 0 {
		return out
	}

	rendered := make([][]float64, len(sources))
	for i, src := range sources {
		rendered[i] = BuildSynth(src).Synthesize(numSamples, sampleRate, rng)
	}

	// Corner positions for up to 4 sources laid out around a unit
	// square; fewer sources collapse to evenly spaced points.
	corners := cornerPositions(len(sources))

	pathX := s.Params.PathX
	pathY := s.Params.PathY

	for i := 0; i < numSamples; i++ {
		t := 0.0
		if numSamples > 1 {
			t = float64(i) / float64(numSamples-1)
		}
		px, py := pathPointAt(pathX, pathY, t)

		weights := make([]float64, len(sources))
		total := 0.0
		for j, c := range corners {
			dx := px - c[0]
			dy := py - c[1]
			dist := math.Sqrt(dx*dx + dy*dy)
			w := 1 / (1 + dist*dist*4)
			weights[j] = w
			total += w
		}
		if total == 0 {
			total = 1
		}
		sample := 0.0
		for j := range sources {
			sample += rendered[j][i] * weights[j] / total
		}
		out[i] = sample
	}
	normalizePeak(out)
	return out
}

func cornerPositions(n int) [][2]float64 {
	switch n {
	case 1:
		return [][2]float64{{0, 0}}
	case 2:
		return [][2]float64{{0, 0}, {1, 0}}
	case 3:
		return [][2]float64{{0, 0}, {1, 0}, {0.5, 1}}
	default:
		return [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	}
}

func pathPointAt(xs, ys []float64, t float64) (float64, float64) {
	if len(xs) == 0 || len(ys) == 0 {
		return 0.5, 0.5
	}
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n == 1 {
		return xs[0], ys[0]
	}
	pos := t * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return xs[n-1], ys[n-1]
	}
	frac := pos - float64(lo)
	x := xs[lo] + (xs[lo+1]-xs[lo])*frac
	y := ys[lo] + (ys[lo+1]-ys[lo])*frac
	return x, y
}

// VocoderSynth imposes a modulator's amplitude envelope, tracked
// through a bank of fixed bandpass bands, onto a carrier signal.
type VocoderSynth struct {
	Params SynthParams
}

func (s *VocoderSynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)

	carrierParams := SynthParams{Kind: SynthOscillator, Waveform: waveformForKind(s.Params.CarrierKind, WaveSaw), Frequency: s.Params.Frequency}
	modParams := SynthParams{Kind: SynthOscillator, Waveform: waveformForKind(s.Params.ModulatorKind, WaveNoise), Frequency: s.Params.Frequency}

	carrier := BuildSynth(carrierParams).Synthesize(numSamples, sampleRate, rng)
	modulator := BuildSynth(modParams).Synthesize(numSamples, sampleRate, rng)

	bandFreqs := []float64{200, 500, 1000, 2000, 4000, 8000}
	carrierBands := make([]*Biquad, len(bandFreqs))
	modBands := make([]*Biquad, len(bandFreqs))
	envFollowers := make([]float64, len(bandFreqs))
	for i, f := range bandFreqs {
		carrierBands[i] = NewBiquad(MakeBiquad(BiquadBandpass, f, 2, 0, sampleRate))
		modBands[i] = NewBiquad(MakeBiquad(BiquadBandpass, f, 2, 0, sampleRate))
	}

	const followerAlpha = 0.01
	for i := 0; i < numSamples; i++ {
		sample := 0.0
		for b := range bandFreqs {
			mFiltered := modBands[b].Process(modulator[i])
			envFollowers[b] += followerAlpha * (math.Abs(mFiltered) - envFollowers[b])
			cFiltered := carrierBands[b].Process(carrier[i])
			sample += cFiltered * envFollowers[b]
		}
		out[i] = sample
	}
	normalizePeak(out)
	return out
}

func waveformForKind(kind string, fallback Waveform) Waveform {
	switch kind {
	case "sine":
		return WaveSine
	case "saw":
		return WaveSaw
	case "square":
		return WaveSquare
	case "triangle":
		return WaveTriangle
	case "noise":
		return WaveNoise
	default:
		return fallback
	}
}

// PitchedBodySynth sweeps an exponentially decaying sine from StartFreq
// to EndFreq over SlopeMs, approximating a percussive pitched body
// (kick/tom).
type PitchedBodySynth struct {
	Params SynthParams
}

func (s *PitchedBodySynth) Synthesize(numSamples int, sampleRate float64, rng *PCG32) []float64 {
	out := make([]float64, numSamples)

	start := s.Params.StartFreq
	if start <= 0 {
		start = 200
	}
	end := s.Params.EndFreq
	if end <= 0 {
		end = 50
	}
	slopeMs := s.Params.SlopeMs
	if slopeMs <= 0 {
		slopeMs = 80
	}
	slopeSamples := slopeMs / 1000 * sampleRate

	phase := NewPhase(sampleRate, 0)
	for i := 0; i < numSamples; i++ {
		frac := clamp(float64(i)/slopeSamples, 0, 1)
		freq := start + (end-start)*frac
		phi := phase.Advance(freq)
		envelope := math.Exp(-float64(i) / sampleRate * 8)
		out[i] = math.Sin(phi) * envelope
	}
	normalizePeak(out)
	return out
}
