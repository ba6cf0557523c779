package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeTestStereo(n int, rng *PCG32) *StereoBuffer {
	buf := NewStereoBuffer(n)
	for i := 0; i < n; i++ {
		v := rng.Signed()
		buf.Left[i] = v
		buf.Right[i] = v
	}
	return buf
}

func TestSimpleWidenerZeroWidthCollapsesToMono(t *testing.T) {
	rng := NewPCG32(1, 1)
	buf := makeTestStereo(256, rng)
	ApplyStereoWidener(buf, StereoWidenerParams{Mode: WidenerSimple, Width: 0}, 44100, rng)

	for i := range buf.Left {
		assert.InDelta(t, buf.Left[i], buf.Right[i], 1e-9)
	}
}

func TestSimpleWidenerUnityWidthIsIdentity(t *testing.T) {
	rng := NewPCG32(1, 1)
	buf := makeTestStereo(256, rng)
	left := append([]float64(nil), buf.Left...)
	right := append([]float64(nil), buf.Right...)

	ApplyStereoWidener(buf, StereoWidenerParams{Mode: WidenerSimple, Width: 1}, 44100, rng)

	for i := range buf.Left {
		assert.InDelta(t, left[i], buf.Left[i], 1e-9)
		assert.InDelta(t, right[i], buf.Right[i], 1e-9)
	}
}

func TestMidSideZeroWidthCollapsesToMono(t *testing.T) {
	rng := NewPCG32(2, 1)
	buf := NewStereoBuffer(256)
	for i := range buf.Left {
		buf.Left[i] = rng.Signed()
		buf.Right[i] = rng.Signed()
	}
	ApplyStereoWidener(buf, StereoWidenerParams{Mode: WidenerMidSide, Width: 0}, 44100, rng)
	for i := range buf.Left {
		assert.InDelta(t, buf.Left[i], buf.Right[i], 1e-9)
	}
}

func TestHaasWidenerZeroDelayIsIdentity(t *testing.T) {
	rng := NewPCG32(3, 1)
	buf := makeTestStereo(256, rng)
	left := append([]float64(nil), buf.Left...)
	right := append([]float64(nil), buf.Right...)

	ApplyStereoWidener(buf, StereoWidenerParams{Mode: WidenerHaas, Width: 1, DelayMs: 0}, 44100, rng)

	for i := range buf.Left {
		assert.InDelta(t, left[i], buf.Left[i], 1e-9)
		assert.InDelta(t, right[i], buf.Right[i], 1e-9)
	}
}

func TestHaasWidenerIncreasesDecorrelation(t *testing.T) {
	rng := NewPCG32(3, 1)
	buf := makeTestStereo(4096, rng)
	before := StereoCorrelation(buf)

	ApplyStereoWidener(buf, StereoWidenerParams{Mode: WidenerHaas, Width: 1, DelayMs: 15}, 44100, rng)
	after := StereoCorrelation(buf)

	assert.Less(t, after, before+1e-9)
}
