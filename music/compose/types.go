// Package compose lowers the pattern algebra (spec §3.6, §4.9) into a
// literal CellMap that the xm/it serialisers' TrackerPattern model
// can consume directly.
package compose

// ExprKind tags which PatternExpr variant a node is.
type ExprKind string

const (
	ExprEmit      ExprKind = "emit"
	ExprEmitSeq   ExprKind = "emit_seq"
	ExprStack     ExprKind = "stack"
	ExprConcat    ExprKind = "concat"
	ExprRepeat    ExprKind = "repeat"
	ExprShift     ExprKind = "shift"
	ExprSlice     ExprKind = "slice"
	ExprRef       ExprKind = "ref"
	ExprTransform ExprKind = "transform"
	ExprProb      ExprKind = "prob"
	ExprChoose    ExprKind = "choose"
)

// MergePolicy enumerates how two CellMaps combine on key collision
// (spec §4.9.3).
type MergePolicy string

const (
	PolicyFirstWins   MergePolicy = "first_wins"
	PolicyLastWins    MergePolicy = "last_wins"
	PolicyMergeFields MergePolicy = "merge_fields"
	PolicyError       MergePolicy = "error"
)

// TimeExpr produces a finite sequence of row indices. Only the
// documented range form is supported: start, start+step, ...,
// start+(count-1)*step.
type TimeExpr struct {
	Start int `json:"start"`
	Step  int `json:"step"`
	Count int `json:"count"`
}

// Rows materialises the row sequence this TimeExpr produces.
func (t TimeExpr) Rows() []int {
	if t.Count <= 0 {
		return nil
	}
	step := t.Step
	if step == 0 {
		step = 1
	}
	rows := make([]int, t.Count)
	for i := 0; i < t.Count; i++ {
		rows[i] = t.Start + i*step
	}
	return rows
}

// CellTemplate is the fully- or partially-specified cell content an
// Emit/EmitSeq places at each produced row. Channel is either a fixed
// index or, when ChannelByRow is set, computed as row % num_channels
// by the caller. Inst is an instrument name, resolved against the
// ambient instrument list at evaluation time.
type CellTemplate struct {
	Channel      *int   `json:"channel,omitempty"`
	ChannelByRow bool   `json:"channel_by_row,omitempty"`
	Note         string `json:"note,omitempty"`
	Inst         string `json:"inst,omitempty"`
	Vol          *int   `json:"vol,omitempty"`
	Effect       *int   `json:"effect,omitempty"`
	Param        *int   `json:"param,omitempty"`
	EffectName   string `json:"effect_name,omitempty"`
	EffectXY     string `json:"effect_xy,omitempty"`
}

// Cell is a fully-resolved (row, channel)-addressed note, with Inst
// already looked up to a concrete instrument index.
type Cell struct {
	Note       string
	Inst       int
	Vol        *int
	Effect     *int
	Param      *int
	EffectName string
	EffectXY   string
}

// CellKey addresses one cell of a CellMap.
type CellKey struct {
	Row     int32
	Channel uint8
}

// CellMap is a mapping from (row, channel) to a fully-specified Cell.
// Iteration order is not meaningful on the map itself; callers that
// need deterministic order (e.g. Prob's RNG draws) must sort keys
// explicitly — see SortedKeys.
type CellMap map[CellKey]Cell

// SortedKeys returns m's keys ordered by (row, channel), the
// canonical iteration order the expander uses wherever evaluation
// order affects outcomes (Prob's per-cell RNG draws).
func (m CellMap) SortedKeys() []CellKey {
	keys := make([]CellKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortCellKeys(keys)
	return keys
}

func sortCellKeys(keys []CellKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			if less(keys[j], keys[j-1]) {
				keys[j], keys[j-1] = keys[j-1], keys[j]
			} else {
				break
			}
		}
	}
}

func less(a, b CellKey) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Channel < b.Channel
}

// ConcatPart is one disjoint segment of a Concat expression.
type ConcatPart struct {
	LenRows int         `json:"len_rows"`
	Body    PatternExpr `json:"body"`
}

// TransformOp is one per-cell modifier in a Transform's op chain.
type TransformOp struct {
	Kind   string  `json:"kind"` // transpose | velocity_scale
	Amount float64 `json:"amount"`
}

// ChooseChoice is one weighted option of a Choose expression.
type ChooseChoice struct {
	Weight float64     `json:"weight"`
	Body   PatternExpr `json:"body"`
}

// PitchSeqKind distinguishes EmitSeq's two harmony-aware pitch
// sequence kinds.
type PitchSeqKind string

const (
	PitchScaleDegree PitchSeqKind = "scale_degree"
	PitchChordTone   PitchSeqKind = "chord_tone"
)

// PitchSeq drives EmitSeq's pitch_seq field.
type PitchSeq struct {
	Kind   PitchSeqKind `json:"kind"`
	Values []int        `json:"values"`
}

// Chord is one entry of the ambient harmony's chord list, covering
// rows in [StartRow, EndRow).
type Chord struct {
	StartRow int    `json:"start_row"`
	EndRow   int    `json:"end_row"`
	Root     int    `json:"root"`    // pitch class of the chord root, 0=C; Harmony.Key is not added
	Quality  string `json:"quality"` // maj|min|dim|aug, etc.
}

// Harmony supplies the ambient key/chord context EmitSeq's
// scale_degree/chord_tone pitch sequences need.
type Harmony struct {
	Key    int     `json:"key"` // tonic MIDI pitch class, 0=C
	Chords []Chord `json:"chords,omitempty"`
}

// majorScaleIntervals are semitone offsets from the tonic for scale
// degrees 1..7.
var majorScaleIntervals = [7]int{0, 2, 4, 5, 7, 9, 11}

// chordIntervals maps a chord quality to its semitone offsets from
// the chord root.
var chordIntervals = map[string][]int{
	"maj": {0, 4, 7},
	"min": {0, 3, 7},
	"dim": {0, 3, 6},
	"aug": {0, 4, 8},
}

// PatternExpr is the tagged union of pattern-algebra expression
// nodes (spec §3.6). Only the fields relevant to Kind are populated.
type PatternExpr struct {
	Kind ExprKind `json:"kind"`

	// emit / emit_seq
	At       *TimeExpr     `json:"at,omitempty"`
	Cell     *CellTemplate `json:"cell,omitempty"`
	NoteSeq  []string      `json:"note_seq,omitempty"`
	PitchSeq *PitchSeq     `json:"pitch_seq,omitempty"`

	// stack
	Merge MergePolicy   `json:"merge,omitempty"`
	Parts []PatternExpr `json:"parts,omitempty"`

	// concat
	ConcatParts []ConcatPart `json:"concat_parts,omitempty"`

	// repeat
	Times   int `json:"times,omitempty"`
	LenRows int `json:"len_rows,omitempty"`

	// repeat / shift / slice share Body
	Body *PatternExpr `json:"body,omitempty"`

	// shift
	Rows int `json:"rows,omitempty"`

	// slice
	Start int `json:"start,omitempty"`
	Len   int `json:"len,omitempty"`

	// ref
	Name string `json:"name,omitempty"`

	// transform
	Ops []TransformOp `json:"ops,omitempty"`

	// prob / choose
	PPermille int            `json:"p_permille,omitempty"`
	SeedSalt  string         `json:"seed_salt,omitempty"`
	Choices   []ChooseChoice `json:"choices,omitempty"`
}
