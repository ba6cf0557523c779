package audio

import "math"

// LoopPoints names the sample offsets (inclusive start, exclusive end)
// of a detected or configured loop region.
type LoopPoints struct {
	StartSample int
	EndSample   int
}

// DetectLoopPoints resolves loop_config into concrete sample offsets,
// defaulting to the full buffer when no explicit bounds are given, and
// snapping both edges to the nearest zero crossing within tolerance
// when requested.
func DetectLoopPoints(buf *StereoBuffer, cfg LoopConfig, sampleRate float64) LoopPoints {
	numSamples := len(buf.Left)
	start := 0
	end := numSamples

	if cfg.LoopStartSeconds != nil {
		start = int(*cfg.LoopStartSeconds * sampleRate)
	}
	if cfg.LoopEndSeconds != nil {
		end = int(*cfg.LoopEndSeconds * sampleRate)
	}
	start = clampInt(start, 0, numSamples)
	end = clampInt(end, start, numSamples)

	if cfg.SnapToZeroCrossing {
		tolerance := cfg.ZeroCrossingTolerance
		if tolerance <= 0 {
			tolerance = 64
		}
		start = snapToZeroCrossing(buf, start, tolerance)
		end = snapToZeroCrossing(buf, end, tolerance)
	}

	return LoopPoints{StartSample: start, EndSample: end}
}

// snapToZeroCrossing searches up to tolerance samples in each
// direction from pos for a sign change in the left channel, returning
// the nearest crossing found, or pos unchanged if none is within range.
func snapToZeroCrossing(buf *StereoBuffer, pos, tolerance int) int {
	n := len(buf.Left)
	if pos <= 0 || pos >= n {
		return clampInt(pos, 0, n)
	}

	best := pos
	bestDist := tolerance + 1

	for d := 0; d <= tolerance; d++ {
		for _, cand := range []int{pos - d, pos + d} {
			if cand <= 0 || cand >= n {
				continue
			}
			if signChange(buf.Left[cand-1], buf.Left[cand]) && d < bestDist {
				best = cand
				bestDist = d
			}
		}
		if bestDist <= d {
			break
		}
	}
	return best
}

func signChange(a, b float64) bool {
	return (a <= 0 && b > 0) || (a >= 0 && b < 0)
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ApplyLoopCrossfade blends the head of the loop region into the
// crossfadeMs of audio preceding the loop end, using an equal-power
// cosine curve, so a looping playback engine doesn't hear a
// discontinuity at the seam. Tail sample end-fadeLen+i is mixed with
// head sample start+i; only the tail [end-fadeLen, end) is modified in
// place, and the head is left untouched.
func ApplyLoopCrossfade(buf *StereoBuffer, points LoopPoints, crossfadeMs float64, sampleRate float64) {
	if crossfadeMs <= 0 {
		return
	}
	fadeLen := int(crossfadeMs / 1000 * sampleRate)
	loopLen := points.EndSample - points.StartSample
	if fadeLen <= 0 || loopLen <= 0 {
		return
	}
	if fadeLen > loopLen {
		fadeLen = loopLen
	}

	mixChannel := func(ch []float64) {
		tailStart := points.EndSample - fadeLen
		for i := 0; i < fadeLen; i++ {
			t := float64(i) / float64(fadeLen)
			fadeOut := math.Cos(t * math.Pi / 2)
			fadeIn := math.Sin(t * math.Pi / 2)
			tail := ch[tailStart+i]
			head := ch[points.StartSample+i]
			ch[tailStart+i] = tail*fadeOut + head*fadeIn
		}
	}
	mixChannel(buf.Left)
	mixChannel(buf.Right)
}

// MeasureLoopDiscontinuity returns the absolute sample-value jump
// between the last sample of the loop region and the first, summed
// across both channels. Zero means a perfectly continuous loop seam.
func MeasureLoopDiscontinuity(buf *StereoBuffer, points LoopPoints) float64 {
	if points.EndSample <= points.StartSample || points.EndSample > len(buf.Left) {
		return 0
	}
	lastIdx := points.EndSample - 1
	dl := math.Abs(buf.Left[points.StartSample] - buf.Left[lastIdx])
	dr := math.Abs(buf.Right[points.StartSample] - buf.Right[lastIdx])
	return dl + dr
}

// MeasureLoopDerivativeDiscontinuity compares the local slope at the
// loop seam (first-difference approximation) rather than raw sample
// value, catching clicks that a value-only check can miss.
func MeasureLoopDerivativeDiscontinuity(buf *StereoBuffer, points LoopPoints) float64 {
	n := len(buf.Left)
	if points.EndSample <= points.StartSample+1 || points.EndSample >= n || points.StartSample+1 >= n {
		return 0
	}
	slopeBeforeL := buf.Left[points.EndSample-1] - buf.Left[points.EndSample-2]
	slopeAfterL := buf.Left[points.StartSample+1] - buf.Left[points.StartSample]
	slopeBeforeR := buf.Right[points.EndSample-1] - buf.Right[points.EndSample-2]
	slopeAfterR := buf.Right[points.StartSample+1] - buf.Right[points.StartSample]
	return math.Abs(slopeAfterL-slopeBeforeL) + math.Abs(slopeAfterR-slopeBeforeR)
}
