package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAVHeaderFields(t *testing.T) {
	buf := NewStereoBuffer(10)
	data, err := EncodeWAV(buf, 44100, BitDepth16)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, "data", string(data[36:40]))

	expectedDataSize := 10 * 2 * 2
	assert.Equal(t, 44+expectedDataSize, len(data))
}

func TestEncodeWAVRejectsUnsupportedBitDepth(t *testing.T) {
	buf := NewStereoBuffer(1)
	_, err := EncodeWAV(buf, 44100, BitDepth(8))
	assert.Error(t, err)
}

func TestEncodeWAV24BitSizesDiffer(t *testing.T) {
	buf := NewStereoBuffer(10)
	buf.Left[0] = 0.5
	buf.Right[0] = -0.5

	data16, err := EncodeWAV(buf, 44100, BitDepth16)
	require.NoError(t, err)
	data24, err := EncodeWAV(buf, 44100, BitDepth24)
	require.NoError(t, err)

	assert.Less(t, len(data16), len(data24))
}
