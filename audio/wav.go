package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// BitDepth enumerates the PCM sample widths the WAV encoder supports.
type BitDepth int

const (
	BitDepth16 BitDepth = 16
	BitDepth24 BitDepth = 24
)

// EncodeWAV writes buf as a canonical 44-byte-header PCM WAV file: no
// extra chunks, no padding, so output bytes are a pure function of the
// samples and format (spec §6.4).
func EncodeWAV(buf *StereoBuffer, sampleRate int, bitDepth BitDepth) ([]byte, error) {
	if bitDepth != BitDepth16 && bitDepth != BitDepth24 {
		return nil, fmt.Errorf("audio: unsupported WAV bit depth %d", bitDepth)
	}
	if len(buf.Left) != len(buf.Right) {
		return nil, fmt.Errorf("audio: stereo channel length mismatch")
	}

	numChannels := 2
	bytesPerSample := int(bitDepth) / 8
	numSamples := len(buf.Left)
	dataSize := numSamples * numChannels * bytesPerSample
	byteRate := sampleRate * numChannels * bytesPerSample
	blockAlign := numChannels * bytesPerSample

	out := bytes.NewBuffer(make([]byte, 0, 44+dataSize))

	out.WriteString("RIFF")
	writeUint32(out, uint32(36+dataSize))
	out.WriteString("WAVE")

	out.WriteString("fmt ")
	writeUint32(out, 16)
	writeUint16(out, 1) // PCM
	writeUint16(out, uint16(numChannels))
	writeUint32(out, uint32(sampleRate))
	writeUint32(out, uint32(byteRate))
	writeUint16(out, uint16(blockAlign))
	writeUint16(out, uint16(bitDepth))

	out.WriteString("data")
	writeUint32(out, uint32(dataSize))

	for i := 0; i < numSamples; i++ {
		writeSample(out, buf.Left[i], bitDepth)
		writeSample(out, buf.Right[i], bitDepth)
	}

	return out.Bytes(), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeSample(buf *bytes.Buffer, sample float64, bitDepth BitDepth) {
	clamped := clamp(sample, -1, 1)
	switch bitDepth {
	case BitDepth24:
		v := int32(clamped * 8388607)
		var b [3]byte
		b[0] = byte(v)
		b[1] = byte(v >> 8)
		b[2] = byte(v >> 16)
		buf.Write(b[:])
	default:
		v := int16(clamped * 32767)
		writeUint16(buf, uint16(v))
	}
}
