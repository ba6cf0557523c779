// Package it serialises a music.TrackerParams document into an
// Impulse Tracker (.it) module: IMPM header, an orders array
// preserving the 254 ("skip")/255 ("end") sentinels, parapointer
// tables, and one IMPI instrument + IMPS sample per TrackerInstrument
// holding delta-encoded 8-bit PCM (spec §4.10, §4.11). The header
// always reserves 64 channel pan/volume slots, regardless of how many
// channels the song actually uses — the quirk the parity checker
// deliberately ignores.
package it

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/speccade/speccade/music"
)

const (
	magic          = "IMPM"
	headerChannels = 64
	orderEnd       = 255
	orderSkip      = 254
)

func fixedString(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)
	return out
}

// Serialize renders params into a complete .it byte stream. seed
// drives the deterministic instrument PCM rendering.
func Serialize(params music.TrackerParams, seed uint32) ([]byte, error) {
	order, patternNames, err := buildOrder(params)
	if err != nil {
		return nil, err
	}

	numInstruments := len(params.Instruments)
	numPatterns := len(patternNames)

	var header bytes.Buffer
	header.WriteString(magic)
	header.Write(fixedString(params.SongName, 26))
	binary.Write(&header, binary.LittleEndian, uint16(0)) // philigs/highlight
	binary.Write(&header, binary.LittleEndian, uint16(len(order)))
	binary.Write(&header, binary.LittleEndian, uint16(numInstruments))
	binary.Write(&header, binary.LittleEndian, uint16(numInstruments)) // one sample per instrument
	binary.Write(&header, binary.LittleEndian, uint16(numPatterns))
	binary.Write(&header, binary.LittleEndian, uint16(0x0214)) // created-with version
	binary.Write(&header, binary.LittleEndian, uint16(0x0200)) // compatible-with version
	binary.Write(&header, binary.LittleEndian, uint16(1))      // flags: stereo
	binary.Write(&header, binary.LittleEndian, uint16(0))      // special
	header.WriteByte(128)                  // global volume
	header.WriteByte(48)                   // mix volume
	header.WriteByte(byte(params.Speed))   // initial speed
	header.WriteByte(byte(params.BPM))     // initial tempo
	header.WriteByte(128)                  // panning separation
	header.WriteByte(0)                    // pitch wheel depth
	binary.Write(&header, binary.LittleEndian, uint16(0)) // message length
	binary.Write(&header, binary.LittleEndian, uint32(0)) // message offset
	binary.Write(&header, binary.LittleEndian, uint32(0)) // reserved

	for ch := 0; ch < headerChannels; ch++ {
		if ch < params.Channels {
			header.WriteByte(32) // centre panning
		} else {
			header.WriteByte(100) // disabled channel marker
		}
	}
	for ch := 0; ch < headerChannels; ch++ {
		header.WriteByte(64) // full channel volume
	}

	for _, o := range order {
		header.WriteByte(byte(o))
	}

	insOffsetPos := header.Len()
	for i := 0; i < numInstruments; i++ {
		binary.Write(&header, binary.LittleEndian, uint32(0))
	}
	smpOffsetPos := header.Len()
	for i := 0; i < numInstruments; i++ {
		binary.Write(&header, binary.LittleEndian, uint32(0))
	}
	patOffsetPos := header.Len()
	for i := 0; i < numPatterns; i++ {
		binary.Write(&header, binary.LittleEndian, uint32(0))
	}

	out := header.Bytes()

	insOffsets := make([]uint32, numInstruments)
	for i, inst := range params.Instruments {
		insOffsets[i] = uint32(len(out))
		out = append(out, encodeInstrument(inst)...)
	}

	smpOffsets := make([]uint32, numInstruments)
	for i, inst := range params.Instruments {
		smpOffsets[i] = uint32(len(out))
		salt := fmt.Sprintf("it-instrument-%d", i)
		out = append(out, encodeSample(inst, seed, salt)...)
	}

	patOffsets := make([]uint32, numPatterns)
	for i, name := range patternNames {
		patOffsets[i] = uint32(len(out))
		encoded, err := encodePattern(params.Patterns[name], params.Channels)
		if err != nil {
			return nil, fmt.Errorf("it: pattern %q: %w", name, err)
		}
		out = append(out, encoded...)
	}

	for i, off := range insOffsets {
		binary.LittleEndian.PutUint32(out[insOffsetPos+i*4:], off)
	}
	for i, off := range smpOffsets {
		binary.LittleEndian.PutUint32(out[smpOffsetPos+i*4:], off)
	}
	for i, off := range patOffsets {
		binary.LittleEndian.PutUint32(out[patOffsetPos+i*4:], off)
	}

	return out, nil
}

// buildOrder expands Arrangement into the IT order list. A repeat
// count of 0 means "no explicit repeat" and is treated as 1. The list
// always ends with the order-end sentinel (255).
func buildOrder(params music.TrackerParams) ([]int, []string, error) {
	var names []string
	index := map[string]int{}
	var order []int

	for _, entry := range params.Arrangement {
		idx, ok := index[entry.Pattern]
		if !ok {
			idx = len(names)
			index[entry.Pattern] = idx
			names = append(names, entry.Pattern)
			if _, ok := params.Patterns[entry.Pattern]; !ok {
				return nil, nil, fmt.Errorf("it: arrangement references unknown pattern %q", entry.Pattern)
			}
		}
		repeat := entry.Repeat
		if repeat < 1 {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			order = append(order, idx)
		}
	}

	if len(order) == 0 {
		for name := range params.Patterns {
			names = append(names, name)
		}
		sort.Strings(names)
		for i := range names {
			order = append(order, i)
		}
	}

	order = append(order, orderEnd)
	return order, names, nil
}

const instrumentHeaderSize = 36

func encodeInstrument(inst music.TrackerInstrument) []byte {
	var buf bytes.Buffer
	buf.WriteString("IMPI")
	buf.Write(fixedString(inst.Name, 26))
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // reserved
	buf.WriteByte(byte(inst.DefaultVolume))
	buf.WriteByte(byte(inst.BaseNote))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // number of samples mapped (this one)
	return buf.Bytes()
}

const sampleHeaderSize = 80

func encodeSample(inst music.TrackerInstrument, seed uint32, salt string) []byte {
	pcm := music.RenderInstrumentPCM(inst, seed, salt)
	delta := music.DeltaEncode8(pcm)

	var buf bytes.Buffer
	buf.WriteString("IMPS")
	buf.Write(fixedString(inst.Name, 26))
	buf.WriteByte(1) // global volume
	buf.WriteByte(0) // flags: 8-bit, no loop
	buf.WriteByte(64) // default volume
	binary.Write(&buf, binary.LittleEndian, uint32(len(delta)))
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // loop start
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // loop end
	binary.Write(&buf, binary.LittleEndian, uint32(music.InstrumentSampleRate))
	buf.Write(delta)
	for buf.Len() < sampleHeaderSize {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func encodePattern(pattern music.TrackerPattern, channels int) ([]byte, error) {
	byRow := make([][]music.TrackerNote, pattern.Rows)
	for _, n := range pattern.Cells() {
		if n.Row < 0 || n.Row >= pattern.Rows {
			continue
		}
		byRow[n.Row] = append(byRow[n.Row], n)
	}

	var packed bytes.Buffer
	for row := 0; row < pattern.Rows; row++ {
		packed.Write(encodeRow(byRow[row], channels))
	}

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, uint16(packed.Len()))
	binary.Write(&out, binary.LittleEndian, uint16(pattern.Rows))
	binary.Write(&out, binary.LittleEndian, uint32(0)) // reserved
	out.Write(packed.Bytes())
	return out.Bytes(), nil
}
