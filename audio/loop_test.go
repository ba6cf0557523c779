package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapToZeroCrossingFindsCrossing(t *testing.T) {
	n := 200
	buf := NewStereoBuffer(n)
	for i := 0; i < n; i++ {
		buf.Left[i] = math.Sin(2 * math.Pi * float64(i) / 40)
	}
	snapped := snapToZeroCrossing(buf, 12, 20)
	assert.True(t, signChange(buf.Left[snapped-1], buf.Left[snapped]) || snapped == 0)
}

func TestDetectLoopPointsDefaultsToFullBuffer(t *testing.T) {
	buf := NewStereoBuffer(100)
	points := DetectLoopPoints(buf, LoopConfig{}, 44100)
	assert.Equal(t, 0, points.StartSample)
	assert.Equal(t, 100, points.EndSample)
}

func TestCrossfadeBlendsTailTowardHead(t *testing.T) {
	n := 1000
	buf := NewStereoBuffer(n)
	rng := NewPCG32(5, 1)
	for i := 0; i < n; i++ {
		buf.Left[i] = rng.Signed()
		buf.Right[i] = rng.Signed()
	}
	points := LoopPoints{StartSample: 100, EndSample: 900}
	originalHead := buf.Left[points.StartSample]
	originalTailEnd := buf.Left[points.EndSample-1]

	ApplyLoopCrossfade(buf, points, 5, 44100)

	// The head (read-only reference) must be untouched.
	assert.Equal(t, originalHead, buf.Left[points.StartSample])
	// The tail (write target) must have moved, and its last sample --
	// where the fade-in weight is strongest -- should land close to the
	// head value it's blending toward.
	require.NotEqual(t, originalTailEnd, buf.Left[points.EndSample-1])
	assert.InDelta(t, originalHead, buf.Left[points.EndSample-1], 0.05)
}
