package audio

import "math"

// StereoBuffer holds independent left and right channel samples of
// equal length.
type StereoBuffer struct {
	Left  []float64
	Right []float64
}

// NewStereoBuffer allocates a zeroed stereo buffer of numSamples.
func NewStereoBuffer(numSamples int) *StereoBuffer {
	return &StereoBuffer{Left: make([]float64, numSamples), Right: make([]float64, numSamples)}
}

// EqualPowerPan splits a mono sample into (left, right) using an
// equal-power law so a centered pan (0) sums to unity power, not
// unity amplitude, across the stereo field.
func EqualPowerPan(sample, pan float64) (float64, float64) {
	// pan in [-1, 1]; map to angle in [0, pi/2]
	p := clamp(pan, -1, 1)
	angle := (p + 1) * math.Pi / 4
	left := sample * math.Cos(angle)
	right := sample * math.Sin(angle)
	return left, right
}

// MixLayers renders each layer independently and sums them into a
// stereo buffer, applying per-layer envelope, volume, pan, optional
// pre-filter, optional LFO modulation, and delay offset.
func MixLayers(layers []Layer, numSamples int, sampleRate float64, rng *PCG32) *StereoBuffer {
	out := NewStereoBuffer(numSamples)

	for _, layer := range layers {
		rendered := renderLayer(layer, numSamples, sampleRate, rng)
		delaySamples := int(layer.DelaySeconds * sampleRate)

		for i, sample := range rendered {
			dst := i + delaySamples
			if dst < 0 || dst >= numSamples {
				continue
			}
			l, r := EqualPowerPan(sample, layer.Pan)
			out.Left[dst] += l
			out.Right[dst] += r
		}
	}
	return out
}

func renderLayer(layer Layer, numSamples int, sampleRate float64, rng *PCG32) []float64 {
	synth := BuildSynth(layer.Synth)
	samples := synth.Synthesize(numSamples, sampleRate, rng)

	envelope := layer.Envelope.Render(numSamples, sampleRate)

	var filter *Biquad
	var ladder *Ladder
	var comb *Comb
	var formant *FormantBank
	if layer.Filter != nil {
		filter, ladder, comb, formant = buildLayerFilter(*layer.Filter, sampleRate)
	}

	var lfoCurve []float64
	if layer.LFO != nil {
		lfo := LFO{Waveform: layer.LFO.Waveform, RateHz: layer.LFO.RateHz, Depth: layer.LFO.Depth, InitialPhase: layer.LFO.InitialPhase}
		lfoCurve = lfo.Render(numSamples, sampleRate, rng)
	}

	out := make([]float64, numSamples)
	volume := layer.Volume

	for i, sample := range samples {
		v := sample
		if layer.LFO != nil && layer.LFO.Target == TargetVolume {
			v *= 1 + lfoCurve[i]
		}
		switch {
		case filter != nil:
			v = filter.Process(v)
		case ladder != nil:
			v = ladder.Process(v)
		case comb != nil:
			v = comb.Process(v)
		case formant != nil:
			v = formant.Process(v)
		}
		out[i] = v * envelope[i] * volume
	}
	return out
}

func buildLayerFilter(fp FilterParams, sampleRate float64) (*Biquad, *Ladder, *Comb, *FormantBank) {
	switch fp.Kind {
	case FilterLadder:
		return nil, NewLadder(fp.Cutoff, fp.Resonance, sampleRate), nil, nil
	case FilterComb:
		delaySamples := int(sampleRate / maxFloat(fp.Cutoff, 1))
		return nil, nil, NewComb(delaySamples, fp.Resonance, fp.Intensity), nil
	case FilterFormant:
		return nil, nil, nil, NewFormantBank(FormantVowel(fp.Vowel), fp.Intensity, sampleRate)
	case FilterLowpass:
		return NewBiquad(MakeBiquad(BiquadLowpass, fp.Cutoff, fp.Q, fp.GainDB, sampleRate)), nil, nil, nil
	case FilterHighpass:
		return NewBiquad(MakeBiquad(BiquadHighpass, fp.Cutoff, fp.Q, fp.GainDB, sampleRate)), nil, nil, nil
	case FilterBandpass:
		return NewBiquad(MakeBiquad(BiquadBandpass, fp.Cutoff, fp.Q, fp.GainDB, sampleRate)), nil, nil, nil
	case FilterNotch:
		return NewBiquad(MakeBiquad(BiquadNotch, fp.Cutoff, fp.Q, fp.GainDB, sampleRate)), nil, nil, nil
	case FilterAllpass:
		return NewBiquad(MakeBiquad(BiquadAllpass, fp.Cutoff, fp.Q, fp.GainDB, sampleRate)), nil, nil, nil
	case FilterShelf:
		return NewBiquad(MakeBiquad(BiquadLowShelf, fp.Cutoff, fp.Q, fp.GainDB, sampleRate)), nil, nil, nil
	default:
		return nil, nil, nil, nil
	}
}
