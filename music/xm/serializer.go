// Package xm serialises a music.TrackerParams document into an
// Extended Module (.xm) file: a 1.04-layout header, a 256-slot
// pattern order table, compressed-cell pattern data, and one
// instrument + sample per TrackerInstrument with delta-encoded 8-bit
// PCM (spec §4.10, §4.11).
package xm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/speccade/speccade/audio"
	"github.com/speccade/speccade/music"
)

const (
	magic         = "Extended Module: "
	trackerName   = "SpecCade"
	formatVersion = 0x0104
	// headerSize is the XM "header size" field: the byte count from
	// the start of this field (its own 4 bytes included) through the
	// end of the order table
	// (4 + 8*2 + 256).
	headerSize    = 276
	maxOrderSlots = 256
)

func fixedString(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)
	return out
}

// Serialize renders params into a complete .xm byte stream. seed
// drives the deterministic instrument PCM rendering.
func Serialize(params music.TrackerParams, seed uint32) ([]byte, error) {
	order, patternNames, err := buildOrder(params)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.Write(fixedString(params.Title, 20))
	buf.WriteByte(0x1A)
	buf.Write(fixedString(trackerName, 20))
	binary.Write(&buf, binary.LittleEndian, uint16(formatVersion))
	binary.Write(&buf, binary.LittleEndian, uint32(headerSize))

	restartPosition := uint16(0)
	binary.Write(&buf, binary.LittleEndian, uint16(len(order)))
	binary.Write(&buf, binary.LittleEndian, restartPosition)
	binary.Write(&buf, binary.LittleEndian, uint16(params.Channels))
	binary.Write(&buf, binary.LittleEndian, uint16(len(patternNames)))
	binary.Write(&buf, binary.LittleEndian, uint16(len(params.Instruments)))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // linear frequency table
	binary.Write(&buf, binary.LittleEndian, uint16(params.Speed))
	binary.Write(&buf, binary.LittleEndian, uint16(params.BPM))

	orderTable := make([]byte, maxOrderSlots)
	for i, idx := range order {
		orderTable[i] = byte(idx)
	}
	buf.Write(orderTable)

	for _, name := range patternNames {
		if err := writePattern(&buf, params.Patterns[name], params.Channels); err != nil {
			return nil, fmt.Errorf("xm: pattern %q: %w", name, err)
		}
	}

	for i, inst := range params.Instruments {
		salt := fmt.Sprintf("xm-instrument-%d", i)
		writeInstrument(&buf, inst, seed, salt)
	}

	return buf.Bytes(), nil
}

// buildOrder expands Arrangement (with repeats) into the XM order
// table and returns the set of distinct pattern names referenced, in
// first-seen order (this fixes each pattern's index in the file).
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
				return nil, nil, fmt.Errorf("xm: arrangement references unknown pattern %q", entry.Pattern)
			}
		}
		repeat := entry.Repeat
		if repeat < 1 {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			if len(order) >= maxOrderSlots {
				return order, names, nil
			}
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

	return order, names, nil
}

func writePattern(buf *bytes.Buffer, pattern music.TrackerPattern, channels int) error {
	cells := make([][]music.TrackerNote, pattern.Rows)
	for i := range cells {
		cells[i] = make([]music.TrackerNote, channels)
		for ch := range cells[i] {
			cells[i][ch].Note = music.NoteEmpty
		}
	}
	for _, n := range pattern.Cells() {
		if n.Row < 0 || n.Row >= pattern.Rows || n.Channel < 0 || n.Channel >= channels {
			continue
		}
		cells[n.Row][n.Channel] = n
	}

	var packed bytes.Buffer
	for row := 0; row < pattern.Rows; row++ {
		for ch := 0; ch < channels; ch++ {
			packed.Write(encodeCell(cells[row][ch]))
		}
	}

	binary.Write(buf, binary.LittleEndian, uint32(9))
	buf.WriteByte(0) // packing type, always 0
	binary.Write(buf, binary.LittleEndian, uint16(pattern.Rows))
	binary.Write(buf, binary.LittleEndian, uint16(packed.Len()))
	buf.Write(packed.Bytes())
	return nil
}

const sampleHeaderSize = 40

// writeInstrument appends one instrument header + sample header + PCM
// block. The instrument header's leading size field is computed from
// what actually gets written rather than hardcoded, so the validator
// can trust it to locate the sample header that follows.
func writeInstrument(buf *bytes.Buffer, inst music.TrackerInstrument, seed uint32, salt string) {
	pcm := music.RenderInstrumentPCM(inst, seed, salt)
	delta := music.DeltaEncode8(pcm)

	var head bytes.Buffer
	head.Write(fixedString(inst.Name, 22))
	head.WriteByte(0) // type
	binary.Write(&head, binary.LittleEndian, uint16(1)) // num samples
	binary.Write(&head, binary.LittleEndian, uint32(sampleHeaderSize))

	keymap := make([]byte, 96)
	head.Write(keymap)

	envPoints := envelopeToPoints(inst.Envelope)
	for _, p := range envPoints {
		binary.Write(&head, binary.LittleEndian, uint16(p[0]))
		binary.Write(&head, binary.LittleEndian, uint16(p[1]))
	}
	for i := len(envPoints); i < 12; i++ {
		binary.Write(&head, binary.LittleEndian, uint16(0))
		binary.Write(&head, binary.LittleEndian, uint16(0))
	}
	head.WriteByte(byte(len(envPoints))) // num volume points
	head.WriteByte(0)                    // num panning points
	head.WriteByte(2)                    // sustain point (flat approximation)
	head.WriteByte(0)                    // loop start
	head.WriteByte(0)                    // loop end
	head.WriteByte(1)                    // volume type: envelope on
	head.WriteByte(0)                    // panning type
	head.WriteByte(0)                    // vibrato type
	head.WriteByte(0)                    // vibrato sweep
	head.WriteByte(0)                    // vibrato depth
	head.WriteByte(0)                    // vibrato rate
	binary.Write(&head, binary.LittleEndian, uint16(0)) // volume fadeout
	binary.Write(&head, binary.LittleEndian, uint16(0)) // reserved

	binary.Write(buf, binary.LittleEndian, uint32(head.Len()+4))
	buf.Write(head.Bytes())

	binary.Write(buf, binary.LittleEndian, uint32(len(delta)))
	binary.Write(buf, binary.LittleEndian, uint32(0)) // loop start
	binary.Write(buf, binary.LittleEndian, uint32(0)) // loop length
	buf.WriteByte(64)                                 // volume
	buf.WriteByte(0)                                  // finetune
	buf.WriteByte(0)                                  // type: 8-bit, no loop
	buf.WriteByte(128)                                // panning (centre)
	buf.WriteByte(byte(inst.BaseNote - 48))            // relative note
	buf.WriteByte(0)                                   // reserved
	buf.Write(fixedString(inst.Name, 22))
	buf.Write(delta)
}

// envelopeToPoints turns the four-segment ADSR into the handful of
// (frame, value) envelope points a tracker's volume envelope editor
// would show: start, attack end and decay end (sustain level), the
// latter two only when their segment spans at least one frame. No
// release point is emitted. value is scaled to XM's [0,64] envelope range.
func envelopeToPoints(env audio.ADSR) [][2]int {
	frame := 0
	points := [][2]int{{frame, 0}}

	attackFrames := int(env.AttackSeconds * music.InstrumentSampleRate / 20)
	if attackFrames > 0 {
		frame += attackFrames
		points = append(points, [2]int{frame, 64})
	}

	decayFrames := int(env.DecaySeconds * music.InstrumentSampleRate / 20)
	sustainValue := int(env.SustainLevel * 64)
	if decayFrames > 0 {
		frame += decayFrames
		points = append(points, [2]int{frame, sustainValue})
	}

	if len(points) > 4 {
		points = points[:4]
	}
	return points
}
