package xm

import (
	"encoding/binary"

	"github.com/speccade/speccade/music"
)

// Validate parses a serialised .xm module and returns its structural
// summary, round-tripping header, pattern, and instrument counts
// without needing to touch sample audio. The parity check (the
// `parity` CLI subcommand and the tests) uses it to confirm a module
// it just wrote is well-formed; generate.Pipeline does not call it.
func Validate(data []byte) (music.FormatSummary, error) {
	if len(data) < 60 || string(data[:len(magic)]) != magic {
		return music.FormatSummary{}, errBadMagic
	}

	pos := 17 + 20 + 1 + 20
	if len(data) < pos+2+4 {
		return music.FormatSummary{}, errShortHeader
	}
	pos += 2 // version
	pos += 4 // header size field itself

	songLength := binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	pos += 2 // restart position
	pos += 2 // channels
	numPatterns := binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	numInstruments := binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	pos += 2 // frequency table flag
	speed := binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	bpm := binary.LittleEndian.Uint16(data[pos:])
	pos += 2

	if len(data) < pos+maxOrderSlots {
		return music.FormatSummary{}, errShortHeader
	}
	orderTable := data[pos : pos+maxOrderSlots]
	pos += maxOrderSlots

	orderEntries := make([]int, songLength)
	for i := 0; i < int(songLength); i++ {
		orderEntries[i] = int(orderTable[i])
	}

	patternRows := make([]int, numPatterns)
	for i := 0; i < int(numPatterns); i++ {
		if len(data) < pos+9 {
			return music.FormatSummary{}, errShortHeader
		}
		pos += 4 // pattern header length
		pos++    // packing type
		rows := binary.LittleEndian.Uint16(data[pos:])
		pos += 2
		packedSize := binary.LittleEndian.Uint16(data[pos:])
		pos += 2
		patternRows[i] = int(rows)
		pos += int(packedSize)
	}

	sampleCount := 0
	for i := 0; i < int(numInstruments); i++ {
		if len(data) < pos+4 {
			return music.FormatSummary{}, errShortHeader
		}
		instHeaderSize := binary.LittleEndian.Uint32(data[pos:])
		instStart := pos
		pos += 4  // the header size field itself
		pos += 22 // name
		pos++     // type
		if len(data) < pos+2+4 {
			return music.FormatSummary{}, errShortHeader
		}
		numSamples := binary.LittleEndian.Uint16(data[pos:])
		pos += 2
		sampleHdrSize := binary.LittleEndian.Uint32(data[pos:])
		sampleCount += int(numSamples)

		pos = instStart + int(instHeaderSize)
		if numSamples > 0 {
			sampleLengths := make([]int, numSamples)
			headerStart := pos
			for s := 0; s < int(numSamples); s++ {
				hdrPos := headerStart + s*int(sampleHdrSize)
				if len(data) < hdrPos+4 {
					return music.FormatSummary{}, errShortSample
				}
				sampleLengths[s] = int(binary.LittleEndian.Uint32(data[hdrPos:]))
			}
			pos = headerStart + int(sampleHdrSize)*int(numSamples)
			for _, length := range sampleLengths {
				pos += length
			}
		}
	}

	return music.FormatSummary{
		InstrumentCount: int(numInstruments),
		SampleCount:     sampleCount,
		PatternCount:    int(numPatterns),
		PatternRows:     patternRows,
		Tempo:           int(speed),
		BPM:             int(bpm),
		OrderLength:     int(songLength),
		OrderEntries:    orderEntries,
	}, nil
}
