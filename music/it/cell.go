package it

import (
	"github.com/speccade/speccade/music"
)

// IT's three note sentinels, distinct numeric codes from XM's.
const (
	noteOffValue  = 255
	noteCutValue  = 254
	noteFadeValue = 253
)

const (
	maskNote   = 1 << 0
	maskInst   = 1 << 1
	maskVol    = 1 << 2
	maskEffect = 1 << 3
	// channelMaskFollows marks that a mask byte follows the channel
	// number. Real IT modules may omit it and reuse the previous row's
	// mask for that channel; this encoder always resends the mask,
	// trading a few bytes for not needing cross-row channel memory.
	channelMaskFollows = 0x80
)

func itNoteValue(note string) (byte, bool) {
	switch note {
	case music.NoteEmpty:
		return 0, false
	case music.NoteOff:
		return noteOffValue, true
	case music.NoteCut:
		return noteCutValue, true
	}
	midi, isSentinel, err := music.ParseNote(note)
	if err != nil {
		return 0, false
	}
	if isSentinel {
		return noteOffValue, true
	}
	return byte(midi), true
}

func itNoteToString(v byte) string {
	switch v {
	case noteOffValue:
		return music.NoteOff
	case noteCutValue, noteFadeValue:
		return music.NoteCut
	}
	return music.FormatNote(int(v))
}

// encodeRow serialises one pattern row into IT's channel/mask/field
// encoding, terminated by a zero byte.
func encodeRow(notes []music.TrackerNote, channels int) []byte {
	byChannel := make(map[int]music.TrackerNote)
	for _, n := range notes {
		if n.Channel >= 0 && n.Channel < channels {
			byChannel[n.Channel] = n
		}
	}

	var out []byte
	for ch := 0; ch < channels; ch++ {
		n, ok := byChannel[ch]
		if !ok {
			continue
		}
		noteByte, hasNote := itNoteValue(n.Note)
		hasInst := n.Inst != 0
		hasVol := n.Vol != nil
		hasEffect := n.Effect != nil
		if !hasNote && !hasInst && !hasVol && !hasEffect {
			continue
		}

		mask := byte(0)
		if hasNote {
			mask |= maskNote
		}
		if hasInst {
			mask |= maskInst
		}
		if hasVol {
			mask |= maskVol
		}
		if hasEffect {
			mask |= maskEffect
		}

		out = append(out, byte(ch+1)|channelMaskFollows, mask)
		if hasNote {
			out = append(out, noteByte)
		}
		if hasInst {
			out = append(out, byte(n.Inst))
		}
		if hasVol {
			out = append(out, byte(*n.Vol))
		}
		if hasEffect {
			param := 0
			if n.Param != nil {
				param = *n.Param
			}
			out = append(out, byte(*n.Effect), byte(param))
		}
	}
	out = append(out, 0)
	return out
}

// decodeRow is encodeRow's inverse, returning the notes found and the
// number of bytes consumed (including the terminating zero).
func decodeRow(data []byte) ([]music.TrackerNote, int, error) {
	var notes []music.TrackerNote
	pos := 0
	for {
		if pos >= len(data) {
			return nil, 0, errShortRow
		}
		channelByte := data[pos]
		pos++
		if channelByte == 0 {
			break
		}
		ch := int(channelByte&0x7F) - 1
		if channelByte&channelMaskFollows == 0 {
			continue // no persisted-mask support; nothing more to read for this channel
		}
		if pos >= len(data) {
			return nil, 0, errShortRow
		}
		mask := data[pos]
		pos++

		var n music.TrackerNote
		n.Channel = ch
		n.Note = music.NoteEmpty
		if mask&maskNote != 0 {
			if pos >= len(data) {
				return nil, 0, errShortRow
			}
			n.Note = itNoteToString(data[pos])
			pos++
		}
		if mask&maskInst != 0 {
			if pos >= len(data) {
				return nil, 0, errShortRow
			}
			n.Inst = int(data[pos])
			pos++
		}
		if mask&maskVol != 0 {
			if pos >= len(data) {
				return nil, 0, errShortRow
			}
			vol := int(data[pos])
			n.Vol = &vol
			pos++
		}
		if mask&maskEffect != 0 {
			if pos+1 >= len(data) {
				return nil, 0, errShortRow
			}
			effect := int(data[pos])
			param := int(data[pos+1])
			n.Effect = &effect
			n.Param = &param
			pos += 2
		}
		notes = append(notes, n)
	}
	return notes, pos, nil
}
