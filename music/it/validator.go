package it

import (
	"encoding/binary"

	"github.com/speccade/speccade/music"
)

// Validate parses a serialised .it module and returns its structural
// summary.
func Validate(data []byte) (music.FormatSummary, error) {
	if len(data) < 4 || string(data[:4]) != magic {
		return music.FormatSummary{}, errBadMagic
	}

	pos := 4 + 26 + 2 // magic, song name, philigs
	if len(data) < pos+2*8 {
		return music.FormatSummary{}, errShortHeader
	}

	ordNum := binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	insNum := binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	smpNum := binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	patNum := binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	pos += 2 // cwtv
	pos += 2 // cmwt
	pos += 2 // flags
	pos += 2 // special

	pos += 2 // global volume, mix volume
	speed := data[pos]
	pos++
	tempo := data[pos]
	pos++
	pos += 2 // panning separation, pitch wheel depth
	pos += 2 // message length
	pos += 4 // message offset
	pos += 4 // reserved

	pos += headerChannels * 2 // pan table + volume table

	if len(data) < pos+int(ordNum) {
		return music.FormatSummary{}, errShortHeader
	}
	orderTable := data[pos : pos+int(ordNum)]
	pos += int(ordNum)

	var orderEntries []int
	for _, o := range orderTable {
		if o == orderEnd || o == orderSkip {
			continue
		}
		orderEntries = append(orderEntries, int(o))
	}

	if len(data) < pos+4*(int(insNum)+int(smpNum)+int(patNum)) {
		return music.FormatSummary{}, errShortHeader
	}
	pos += 4 * int(insNum) // instrument parapointers (unused by the summary)
	pos += 4 * int(smpNum) // sample parapointers (unused by the summary)

	patOffsets := make([]uint32, patNum)
	for i := 0; i < int(patNum); i++ {
		patOffsets[i] = binary.LittleEndian.Uint32(data[pos:])
		pos += 4
	}

	patternRows := make([]int, patNum)
	for i, off := range patOffsets {
		p := int(off)
		if len(data) < p+8 {
			return music.FormatSummary{}, errShortHeader
		}
		rows := binary.LittleEndian.Uint16(data[p+2:])
		patternRows[i] = int(rows)
	}

	return music.FormatSummary{
		InstrumentCount: int(insNum),
		SampleCount:     int(smpNum),
		PatternCount:    int(patNum),
		PatternRows:     patternRows,
		Tempo:           int(speed),
		BPM:             int(tempo),
		// OrderLength counts playable order entries only, excluding the
		// trailing end-of-song sentinel IT always appends, so it lines
		// up with XM's literal song_length (spec §4.11 parity).
		OrderLength:     len(orderEntries),
		OrderEntries:    orderEntries,
	}, nil
}
