package compose

import (
	"encoding/json"
	"fmt"

	"github.com/speccade/speccade/music"
)

// PatternProgram is one named entry of a compose document's patterns
// map: a program expression plus whatever hand-authored overrides the
// author layered on top (spec §4.9.2).
type PatternProgram struct {
	Rows    int                             `json:"rows"`
	Program *PatternExpr                    `json:"program,omitempty"`
	Data    []music.TrackerNote             `json:"data,omitempty"`
	Notes   map[string][]music.TrackerNote  `json:"notes,omitempty"`
}

// Params is the decoded music.tracker_song_compose_v1 recipe
// document: named pattern definitions plus one program per pattern,
// an ambient instrument table, and the optional harmony context
// scale_degree/chord_tone pitch sequences need.
type Params struct {
	Format      music.Format              `json:"format"`
	BPM         int                       `json:"bpm"`
	Speed       int                       `json:"speed"`
	Channels    int                       `json:"channels"`
	Instruments []music.TrackerInstrument `json:"instruments"`
	Defs        map[string]PatternExpr    `json:"defs,omitempty"`
	Patterns    map[string]PatternProgram `json:"patterns"`
	Arrangement []music.ArrangementEntry  `json:"arrangement"`
	Harmony     *Harmony                  `json:"harmony,omitempty"`
	SongName    string                    `json:"song_name"`
	Title       string                    `json:"title"`
}

// DecodeParams decodes a music.tracker_song_compose_v1 recipe's raw
// params document.
func DecodeParams(raw json.RawMessage) (*Params, error) {
	var p Params
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// instrumentIndex builds the name->index table Emit/EmitSeq resolve
// instrument references against.
func instrumentIndex(instruments []music.TrackerInstrument) map[string]int {
	index := make(map[string]int, len(instruments))
	for i, inst := range instruments {
		index[inst.Name] = i
	}
	return index
}

// Expand lowers every pattern's program to a CellMap, merges its
// manual overrides on top, and assembles the complete
// music.TrackerParams the xm/it serialisers consume. seed drives
// every per-pattern expander RNG.
func Expand(params Params, seed uint32) (music.TrackerParams, error) {
	instruments := instrumentIndex(params.Instruments)
	patterns := make(map[string]music.TrackerPattern, len(params.Patterns))

	for name, prog := range params.Patterns {
		expander := NewExpander(params.Defs, instruments, params.Harmony, prog.Rows, params.Channels, name, seed)

		program := PatternExpr{Kind: ExprStack}
		if prog.Program != nil {
			program = *prog.Program
		}
		literal := music.TrackerPattern{Rows: prog.Rows, Data: prog.Data, Notes: prog.Notes}

		expanded, err := ExpandPattern(expander, program, literal)
		if err != nil {
			return music.TrackerParams{}, fmt.Errorf("compose: pattern %q: %w", name, err)
		}
		patterns[name] = expanded
	}

	return music.TrackerParams{
		Format:      params.Format,
		BPM:         params.BPM,
		Speed:       params.Speed,
		Channels:    params.Channels,
		Instruments: params.Instruments,
		Patterns:    patterns,
		Arrangement: params.Arrangement,
		SongName:    params.SongName,
		Title:       params.Title,
	}, nil
}
