// Package music defines SpecCade's shared tracker module model (the
// TrackerInstrument/TrackerPattern/TrackerNote triple), the note-name
// and MIDI parsing both serialisers rely on, and the XM/IT structural
// parity checker. The xm and it subpackages turn this model into
// concrete binary layouts; the compose subpackage lowers the pattern
// algebra into it.
package music

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/speccade/speccade/audio"
)

// Format enumerates the two tracker binary layouts.
type Format string

const (
	FormatXM Format = "xm"
	FormatIT Format = "it"
)

// TrackerInstrument names a playable voice: its synthesis shape (used
// to render the sample data baked into the module), base note, ADSR,
// and default volume.
type TrackerInstrument struct {
	Name         string           `json:"name"`
	BaseNote     int              `json:"base_note"`
	Envelope     audio.ADSR       `json:"envelope"`
	Synth        audio.SynthParams `json:"synth"`
	DefaultVolume int             `json:"default_volume"`
}

// TrackerNote is one event at a (row, channel) cell.
type TrackerNote struct {
	Row        int    `json:"row"`
	Channel    int    `json:"channel,omitempty"`
	Note       string `json:"note"`
	Inst       int    `json:"inst"`
	Vol        *int   `json:"vol,omitempty"`
	Effect     *int   `json:"effect,omitempty"`
	Param      *int   `json:"param,omitempty"`
	EffectName string `json:"effect_name,omitempty"`
	EffectXY   string `json:"effect_xy,omitempty"`
}

// TrackerPattern is a fixed-length grid of notes, either addressed by
// channel (Notes) or given as a flat list carrying explicit channel
// numbers (Data).
type TrackerPattern struct {
	Rows  int                     `json:"rows"`
	Notes map[string][]TrackerNote `json:"notes,omitempty"`
	Data  []TrackerNote           `json:"data,omitempty"`
}

// Cells flattens Notes/Data into one ordered slice of (row, channel)
// assigned notes, Data entries last so manual overrides win ties the
// same way the compose expander's last_wins merge does.
func (p TrackerPattern) Cells() []TrackerNote {
	var out []TrackerNote
	for chStr, notes := range p.Notes {
		ch, err := strconv.Atoi(chStr)
		if err != nil {
			continue
		}
		for _, n := range notes {
			n.Channel = ch
			out = append(out, n)
		}
	}
	out = append(out, p.Data...)
	return out
}

// ArrangementEntry is one ordered step of the song's playback order.
type ArrangementEntry struct {
	Pattern string `json:"pattern"`
	Repeat  int    `json:"repeat,omitempty"`
}

// TrackerParams is the fully-literal (post-expansion, for compose
// recipes) tracker song document both serialisers consume.
type TrackerParams struct {
	Format      Format                    `json:"format"`
	BPM         int                       `json:"bpm"`
	Speed       int                       `json:"speed"`
	Channels    int                       `json:"channels"`
	Instruments []TrackerInstrument       `json:"instruments"`
	Patterns    map[string]TrackerPattern `json:"patterns"`
	Arrangement []ArrangementEntry        `json:"arrangement"`
	SongName    string                    `json:"song_name"`
	Title       string                    `json:"title"`
}

// noteLetterValues maps a note letter to its semitone offset from C;
// ParseNote accepts <Letter><#|b?><Octave>, e.g. "C#4", "Ab-1".
var noteLetterValues = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// NoteOff, NoteCut, and NoteEmpty are the note-string sentinels (spec §3.5).
const (
	NoteOff   = "---"
	NoteCut   = "==="
	NoteEmpty = "..."
)

// ParseNote converts a note string to a MIDI note number (C-1 = 0,
// A4 = 69), or one of the three sentinel kinds. isSentinel is true
// for "---"/"==="/"..." in which case midi is meaningless.
func ParseNote(s string) (midi int, isSentinel bool, err error) {
	switch s {
	case NoteOff, NoteCut, NoteEmpty:
		return 0, true, nil
	}

	if n, convErr := strconv.Atoi(s); convErr == nil {
		return n, false, nil
	}

	if len(s) < 2 {
		return 0, false, fmt.Errorf("music: note %q too short", s)
	}

	letter := byte(strings.ToUpper(s[:1])[0])
	base, ok := noteLetterValues[letter]
	if !ok {
		return 0, false, fmt.Errorf("music: note %q has unknown letter", s)
	}

	rest := s[1:]
	accidental := 0
	if len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			accidental = 1
		} else {
			accidental = -1
		}
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false, fmt.Errorf("music: note %q has invalid octave: %w", s, err)
	}

	// C-1 = MIDI 0, so octave -1 contributes a zero offset.
	midiVal := (octave+1)*12 + base + accidental
	return midiVal, false, nil
}

var noteLetterNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FormatNote renders a MIDI note number back to <Letter><#?><Octave>
// form (the inverse of ParseNote), e.g. 69 -> "A4".
func FormatNote(midi int) string {
	octave := midi/12 - 1
	degree := midi % 12
	if degree < 0 {
		degree += 12
		octave--
	}
	return fmt.Sprintf("%s%d", noteLetterNames[degree], octave)
}

// FormatSummary is the structural fingerprint of a tracker module,
// used by the XM/IT validators and the parity checker.
type FormatSummary struct {
	InstrumentCount int
	SampleCount     int
	PatternCount    int
	PatternRows     []int
	Tempo           int
	BPM             int
	OrderLength     int
	OrderEntries    []int
}
