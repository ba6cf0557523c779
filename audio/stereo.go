package audio

import "math"

// ApplyStereoWidener post-processes a stereo buffer in place according
// to the configured widening algorithm (§4.7).
func ApplyStereoWidener(buf *StereoBuffer, params StereoWidenerParams, sampleRate float64, rng *PCG32) {
	switch params.Mode {
	case WidenerHaas:
		applyHaas(buf, params, sampleRate, rng)
	case WidenerMidSide:
		applyMidSide(buf, params)
	default:
		applySimpleWiden(buf, params)
	}
}

// clampWidth restricts width to the documented [0,2] range (spec §4.7):
// 0 collapses to mono, 1 is a no-op, 2 is the maximum widening.
func clampWidth(width float64) float64 {
	if width < 0 {
		return 0
	}
	if width > 2 {
		return 2
	}
	return width
}

// applySimpleWiden scales the difference between channels by width,
// leaving their sum (mono content) untouched. width=0 collapses to
// mono; width=1 is a no-op; width>1 exaggerates separation.
func applySimpleWiden(buf *StereoBuffer, params StereoWidenerParams) {
	width := clampWidth(params.Width)
	for i := range buf.Left {
		l, r := buf.Left[i], buf.Right[i]
		mid := 0.5 * (l + r)
		side := 0.5 * (l - r)
		side *= width
		buf.Left[i] = mid + side
		buf.Right[i] = mid - side
	}
}

// applyMidSide decomposes into mid/side, scales side by width, and
// recomposes. Width=0 collapses to mono (identical to applySimpleWiden
// at width=0); larger widths increase the side contribution.
func applyMidSide(buf *StereoBuffer, params StereoWidenerParams) {
	width := clampWidth(params.Width)
	for i := range buf.Left {
		mid := 0.5 * (buf.Left[i] + buf.Right[i])
		side := 0.5 * (buf.Left[i] - buf.Right[i])
		side *= width
		buf.Left[i] = mid + side
		buf.Right[i] = mid - side
	}
}

// applyHaas delays one channel by delay_ms to create a sense of width
// via the precedence effect. delay_ms <= 0 is a no-op, matching the
// original's apply_haas (delay_samples == 0 returns immediately);
// otherwise delay_ms is clamped to the documented [0.1,50] range. When
// Modulated, the delay is swept slowly by an LFO instead of held fixed.
func applyHaas(buf *StereoBuffer, params StereoWidenerParams, sampleRate float64, rng *PCG32) {
	if params.DelayMs <= 0 {
		return
	}
	delayMs := params.DelayMs
	if delayMs < 0.1 {
		delayMs = 0.1
	}
	if delayMs > 50 {
		delayMs = 50
	}
	maxDelaySamples := int(delayMs / 1000 * sampleRate)
	if maxDelaySamples < 1 {
		maxDelaySamples = 1
	}

	original := make([]float64, len(buf.Right))
	copy(original, buf.Right)

	if !params.Modulated {
		for i := range buf.Right {
			src := i - maxDelaySamples
			if src < 0 {
				buf.Right[i] = 0
				continue
			}
			buf.Right[i] = original[src]
		}
		applySimpleWiden(buf, StereoWidenerParams{Width: params.Width})
		return
	}

	lfo := LFO{Waveform: LFOSine, RateHz: 0.2, Depth: 1, InitialPhase: 0}
	curve := lfo.Render(len(buf.Right), sampleRate, rng)
	for i := range buf.Right {
		depthFrac := 0.5 * (curve[i] + 1)
		delaySamples := int(depthFrac * float64(maxDelaySamples))
		src := i - delaySamples
		if src < 0 {
			buf.Right[i] = 0
			continue
		}
		buf.Right[i] = original[src]
	}
	applySimpleWiden(buf, StereoWidenerParams{Width: params.Width})
}

// StereoCorrelation measures the Pearson correlation between left and
// right channels; 1.0 is mono-identical, 0.0 is decorrelated, -1.0 is
// fully inverted. Used by tests to check widener behavior at the
// extremes.
func StereoCorrelation(buf *StereoBuffer) float64 {
	n := len(buf.Left)
	if n == 0 {
		return 1
	}
	var sumL, sumR, sumLR, sumL2, sumR2 float64
	for i := 0; i < n; i++ {
		l, r := buf.Left[i], buf.Right[i]
		sumL += l
		sumR += r
		sumLR += l * r
		sumL2 += l * l
		sumR2 += r * r
	}
	nf := float64(n)
	cov := sumLR/nf - (sumL/nf)*(sumR/nf)
	varL := sumL2/nf - (sumL/nf)*(sumL/nf)
	varR := sumR2/nf - (sumR/nf)*(sumR/nf)
	denom := math.Sqrt(varL * varR)
	if denom <= 1e-12 {
		return 1
	}
	return cov / denom
}
