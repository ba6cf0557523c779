package xm

import (
	"github.com/speccade/speccade/music"
)

// Cell-compression control byte: bit 7 marks a compressed cell; bits
// 0-4 mark which of note/instrument/volume/effect/param follow. An
// uncompressed cell (top bit of the first byte clear) is always all
// five fields, in order, unconditionally.
const (
	compressedFlag = 0x80
	flagNote       = 1 << 0
	flagInst       = 1 << 1
	flagVol        = 1 << 2
	flagEffect     = 1 << 3
	flagParam      = 1 << 4
)

// noteOffValue is the XM cell note byte reserved for "key off".
const noteOffValue = 97

// xmNoteValue converts a note string to the XM note numbering, where
// C-0 = 1 (one past MIDI's C-1 = 0) and 97 means note-off. NoteCut has
// no distinct XM representation and is folded into note-off.
func xmNoteValue(note string) (byte, bool, error) {
	midi, isSentinel, err := music.ParseNote(note)
	if err != nil {
		return 0, false, err
	}
	if isSentinel {
		if note == music.NoteEmpty {
			return 0, false, nil
		}
		return noteOffValue, true, nil
	}
	return byte(midi + 1), true, nil
}

func xmNoteToString(v byte) string {
	if v == 0 {
		return music.NoteEmpty
	}
	if v == noteOffValue {
		return music.NoteOff
	}
	return music.FormatNote(int(v) - 1)
}

// encodeCell serialises one tracker note into XM's compressed cell
// format, eliding absent fields behind a control byte when doing so
// saves space.
func encodeCell(n music.TrackerNote) []byte {
	noteByte, hasNote, _ := xmNoteValue(n.Note)
	instByte := byte(n.Inst)
	hasInst := n.Inst != 0
	var volByte byte
	hasVol := n.Vol != nil
	if hasVol {
		volByte = byte(*n.Vol)
	}
	var effectByte byte
	hasEffect := n.Effect != nil
	if hasEffect {
		effectByte = byte(*n.Effect)
	}
	var paramByte byte
	hasParam := n.Param != nil
	if hasParam {
		paramByte = byte(*n.Param)
	}

	if hasNote && hasInst && hasVol && hasEffect && hasParam {
		return []byte{noteByte, instByte, volByte, effectByte, paramByte}
	}

	control := byte(compressedFlag)
	out := []byte{0}
	if hasNote {
		control |= flagNote
		out = append(out, noteByte)
	}
	if hasInst {
		control |= flagInst
		out = append(out, instByte)
	}
	if hasVol {
		control |= flagVol
		out = append(out, volByte)
	}
	if hasEffect {
		control |= flagEffect
		out = append(out, effectByte)
	}
	if hasParam {
		control |= flagParam
		out = append(out, paramByte)
	}
	out[0] = control
	return out
}

// decodeCell is encodeCell's inverse; it returns the tracker note
// (Row/Channel left zero, the caller fills those in) and how many
// bytes it consumed.
func decodeCell(data []byte) (music.TrackerNote, int, error) {
	if len(data) == 0 {
		return music.TrackerNote{}, 0, errShortCell
	}

	first := data[0]
	var n music.TrackerNote
	if first&compressedFlag == 0 {
		if len(data) < 5 {
			return music.TrackerNote{}, 0, errShortCell
		}
		n.Note = xmNoteToString(first)
		n.Inst = int(data[1])
		vol := int(data[2])
		effect := int(data[3])
		param := int(data[4])
		n.Vol = &vol
		n.Effect = &effect
		n.Param = &param
		return n, 5, nil
	}

	pos := 1
	n.Note = music.NoteEmpty
	if first&flagNote != 0 {
		if pos >= len(data) {
			return music.TrackerNote{}, 0, errShortCell
		}
		n.Note = xmNoteToString(data[pos])
		pos++
	}
	if first&flagInst != 0 {
		if pos >= len(data) {
			return music.TrackerNote{}, 0, errShortCell
		}
		n.Inst = int(data[pos])
		pos++
	}
	if first&flagVol != 0 {
		if pos >= len(data) {
			return music.TrackerNote{}, 0, errShortCell
		}
		vol := int(data[pos])
		n.Vol = &vol
		pos++
	}
	if first&flagEffect != 0 {
		if pos >= len(data) {
			return music.TrackerNote{}, 0, errShortCell
		}
		effect := int(data[pos])
		n.Effect = &effect
		pos++
	}
	if first&flagParam != 0 {
		if pos >= len(data) {
			return music.TrackerNote{}, 0, errShortCell
		}
		param := int(data[pos])
		n.Param = &param
		pos++
	}
	return n, pos, nil
}
