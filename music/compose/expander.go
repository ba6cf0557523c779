package compose

import (
	"fmt"
	"strings"

	"github.com/speccade/speccade/audio"
	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/music"
)

// MaxRecursion and MaxCellsPerPattern mirror spec/budgets.go's
// MaxComposeRecursion/MaxCellsPerPattern; duplicated here as the
// expander's hard ceiling so this package has no dependency on spec.
const (
	MaxRecursion       = 64
	MaxCellsPerPattern = 50000
)

// Expander evaluates a PatternExpr program against an ambient set of
// named pattern definitions, an instrument name table, optional
// harmony context, and the owning pattern's row count/name/seed.
type Expander struct {
	Defs        map[string]PatternExpr
	Instruments map[string]int
	Harmony     *Harmony
	PatternRows int
	PatternName string
	Channels    int
	Seed        uint32

	visiting []string
}

// NewExpander constructs an Expander for one pattern's program.
func NewExpander(defs map[string]PatternExpr, instruments map[string]int, harmony *Harmony, patternRows, channels int, patternName string, seed uint32) *Expander {
	return &Expander{
		Defs: defs, Instruments: instruments, Harmony: harmony,
		PatternRows: patternRows, Channels: channels, PatternName: patternName, Seed: seed,
	}
}

// Eval expands expr to a CellMap, enforcing the recursion and
// cell-count ceilings at every step (spec §4.9.1).
func (e *Expander) Eval(expr PatternExpr) (CellMap, error) {
	return e.eval(expr, 0)
}

func (e *Expander) eval(expr PatternExpr, depth int) (CellMap, error) {
	if depth > MaxRecursion {
		return nil, &specerr.SpecError{Code: specerr.CodeRecursionLimit, Message: fmt.Sprintf("recursion depth %d exceeds max %d", depth, MaxRecursion)}
	}

	var result CellMap
	var err error

	switch expr.Kind {
	case ExprEmit:
		result, err = e.evalEmit(expr)
	case ExprEmitSeq:
		result, err = e.evalEmitSeq(expr)
	case ExprStack:
		result, err = e.evalStack(expr, depth)
	case ExprConcat:
		result, err = e.evalConcat(expr, depth)
	case ExprRepeat:
		result, err = e.evalRepeat(expr, depth)
	case ExprShift:
		result, err = e.evalShift(expr, depth)
	case ExprSlice:
		result, err = e.evalSlice(expr, depth)
	case ExprRef:
		result, err = e.evalRef(expr, depth)
	case ExprTransform:
		result, err = e.evalTransform(expr, depth)
	case ExprProb:
		result, err = e.evalProb(expr, depth)
	case ExprChoose:
		result, err = e.evalChoose(expr, depth)
	default:
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: fmt.Sprintf("unknown expression kind %q", expr.Kind)}
	}
	if err != nil {
		return nil, err
	}
	if err := checkCellLimit(result); err != nil {
		return nil, err
	}
	return result, nil
}

func checkCellLimit(m CellMap) error {
	if len(m) > MaxCellsPerPattern {
		return &specerr.SpecError{Code: specerr.CodeCellLimit, Message: fmt.Sprintf("cell count %d exceeds max %d", len(m), MaxCellsPerPattern)}
	}
	return nil
}

func (e *Expander) resolveChannel(tmpl *CellTemplate, row int) int {
	if tmpl.ChannelByRow {
		if e.Channels <= 0 {
			return 0
		}
		return row % e.Channels
	}
	if tmpl.Channel != nil {
		return *tmpl.Channel
	}
	return 0
}

func (e *Expander) resolveInstrument(name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	idx, ok := e.Instruments[name]
	if !ok {
		return 0, &specerr.SpecError{Code: specerr.CodeUnknownInstrument, Message: fmt.Sprintf("unknown instrument %q", name)}
	}
	return idx, nil
}

func cellFromTemplate(tmpl CellTemplate, instIdx int) Cell {
	return Cell{
		Note: tmpl.Note, Inst: instIdx, Vol: tmpl.Vol, Effect: tmpl.Effect,
		Param: tmpl.Param, EffectName: tmpl.EffectName, EffectXY: tmpl.EffectXY,
	}
}

func (e *Expander) evalEmit(expr PatternExpr) (CellMap, error) {
	if expr.At == nil || expr.Cell == nil {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "emit requires at and cell"}
	}
	instIdx, err := e.resolveInstrument(expr.Cell.Inst)
	if err != nil {
		return nil, err
	}

	result := make(CellMap)
	for _, row := range expr.At.Rows() {
		channel := e.resolveChannel(expr.Cell, row)
		result[CellKey{Row: int32(row), Channel: uint8(channel)}] = cellFromTemplate(*expr.Cell, instIdx)
	}
	return result, nil
}

func (e *Expander) evalEmitSeq(expr PatternExpr) (CellMap, error) {
	if expr.At == nil || expr.Cell == nil {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "emit_seq requires at and cell"}
	}
	if len(expr.NoteSeq) > 0 && expr.PitchSeq != nil {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "note_seq and pitch_seq are mutually exclusive"}
	}
	instIdx, err := e.resolveInstrument(expr.Cell.Inst)
	if err != nil {
		return nil, err
	}

	rows := expr.At.Rows()
	result := make(CellMap)
	for i, row := range rows {
		cell := cellFromTemplate(*expr.Cell, instIdx)

		switch {
		case len(expr.NoteSeq) > 0:
			if i < len(expr.NoteSeq) {
				cell.Note = expr.NoteSeq[i]
			}
		case expr.PitchSeq != nil:
			note, err := e.resolvePitchSeq(*expr.PitchSeq, i, row)
			if err != nil {
				return nil, err
			}
			cell.Note = note
		}

		channel := e.resolveChannel(expr.Cell, row)
		result[CellKey{Row: int32(row), Channel: uint8(channel)}] = cell
	}
	return result, nil
}

func (e *Expander) resolvePitchSeq(seq PitchSeq, index, row int) (string, error) {
	if index >= len(seq.Values) {
		return music.NoteEmpty, nil
	}
	value := seq.Values[index]

	switch seq.Kind {
	case PitchScaleDegree:
		if e.Harmony == nil {
			return "", &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "pitch_seq kind scale_degree requires harmony.key"}
		}
		degree := ((value - 1) % 7 + 7) % 7
		octaveShift := (value - 1) / 7
		midi := 60 + e.Harmony.Key + majorScaleIntervals[degree] + octaveShift*12
		return music.FormatNote(midi), nil

	case PitchChordTone:
		if e.Harmony == nil || len(e.Harmony.Chords) == 0 {
			return "", &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "pitch_seq kind chord_tone requires harmony.chords"}
		}
		chord := findChordForRow(e.Harmony.Chords, row)
		if chord == nil {
			return "", &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: fmt.Sprintf("no chord covers row %d", row)}
		}
		intervals, ok := chordIntervals[chord.Quality]
		if !ok {
			intervals = chordIntervals["maj"]
		}
		toneIdx := ((value - 1) % len(intervals) + len(intervals)) % len(intervals)
		octaveShift := (value - 1) / len(intervals)
		midi := 60 + chord.Root + intervals[toneIdx] + octaveShift*12
		return music.FormatNote(midi), nil
	}
	return "", &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: fmt.Sprintf("unknown pitch_seq kind %q", seq.Kind)}
}

func findChordForRow(chords []Chord, row int) *Chord {
	for i := range chords {
		if row >= chords[i].StartRow && row < chords[i].EndRow {
			return &chords[i]
		}
	}
	return nil
}

func (e *Expander) evalStack(expr PatternExpr, depth int) (CellMap, error) {
	result := make(CellMap)
	for _, part := range expr.Parts {
		partMap, err := e.eval(part, depth+1)
		if err != nil {
			return nil, err
		}
		result, err = mergeCellMaps(result, partMap, expr.Merge)
		if err != nil {
			return nil, err
		}
		if err := checkCellLimit(result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (e *Expander) evalConcat(expr PatternExpr, depth int) (CellMap, error) {
	totalLen := 0
	for _, part := range expr.ConcatParts {
		if part.LenRows <= 0 {
			return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "concat part len_rows must be > 0"}
		}
		totalLen += part.LenRows
	}
	if totalLen > e.PatternRows {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: fmt.Sprintf("concat total length %d exceeds pattern_rows %d", totalLen, e.PatternRows)}
	}

	result := make(CellMap)
	offset := 0
	for _, part := range expr.ConcatParts {
		partMap, err := e.eval(part.Body, depth+1)
		if err != nil {
			return nil, err
		}
		for key, cell := range partMap {
			if int(key.Row) < 0 || int(key.Row) >= part.LenRows {
				return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: fmt.Sprintf("concat part produced row %d outside [0,%d)", key.Row, part.LenRows)}
			}
			shifted := CellKey{Row: key.Row + int32(offset), Channel: key.Channel}
			if _, exists := result[shifted]; exists {
				return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: fmt.Sprintf("concat collision at row %d channel %d", shifted.Row, shifted.Channel)}
			}
			result[shifted] = cell
		}
		offset += part.LenRows
	}
	return result, nil
}

func (e *Expander) evalRepeat(expr PatternExpr, depth int) (CellMap, error) {
	if expr.LenRows <= 0 {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "repeat len_rows must be > 0"}
	}
	if expr.Times*expr.LenRows > e.PatternRows {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: fmt.Sprintf("repeat times*len_rows=%d exceeds pattern_rows %d", expr.Times*expr.LenRows, e.PatternRows)}
	}
	if expr.Body == nil {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "repeat requires body"}
	}

	body, err := e.eval(*expr.Body, depth+1)
	if err != nil {
		return nil, err
	}

	result := make(CellMap)
	for i := 0; i < expr.Times; i++ {
		offset := int32(i * expr.LenRows)
		for key, cell := range body {
			shifted := CellKey{Row: key.Row + offset, Channel: key.Channel}
			if _, exists := result[shifted]; exists {
				return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: fmt.Sprintf("repeat collision at row %d channel %d", shifted.Row, shifted.Channel)}
			}
			result[shifted] = cell
		}
	}
	return result, nil
}

func (e *Expander) evalShift(expr PatternExpr, depth int) (CellMap, error) {
	if expr.Body == nil {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "shift requires body"}
	}
	body, err := e.eval(*expr.Body, depth+1)
	if err != nil {
		return nil, err
	}
	result := make(CellMap, len(body))
	for key, cell := range body {
		result[CellKey{Row: key.Row + int32(expr.Rows), Channel: key.Channel}] = cell
	}
	return result, nil
}

func (e *Expander) evalSlice(expr PatternExpr, depth int) (CellMap, error) {
	if expr.Len < 0 {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "slice len must be >= 0"}
	}
	if expr.Body == nil {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "slice requires body"}
	}
	body, err := e.eval(*expr.Body, depth+1)
	if err != nil {
		return nil, err
	}
	result := make(CellMap)
	for key, cell := range body {
		if int(key.Row) >= expr.Start && int(key.Row) < expr.Start+expr.Len {
			result[key] = cell
		}
	}
	return result, nil
}

func (e *Expander) evalRef(expr PatternExpr, depth int) (CellMap, error) {
	for _, name := range e.visiting {
		if name == expr.Name {
			chain := strings.Join(append(append([]string{}, e.visiting...), expr.Name), " -> ")
			return nil, &specerr.SpecError{Code: specerr.CodeRefCycle, Message: fmt.Sprintf("cycle: %s", chain)}
		}
	}
	def, ok := e.Defs[expr.Name]
	if !ok {
		return nil, &specerr.SpecError{Code: specerr.CodeUnknownPattern, Message: fmt.Sprintf("unknown pattern definition %q", expr.Name)}
	}

	e.visiting = append(e.visiting, expr.Name)
	result, err := e.eval(def, depth+1)
	e.visiting = e.visiting[:len(e.visiting)-1]
	return result, err
}

func (e *Expander) evalTransform(expr PatternExpr, depth int) (CellMap, error) {
	if expr.Body == nil {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "transform requires body"}
	}
	body, err := e.eval(*expr.Body, depth+1)
	if err != nil {
		return nil, err
	}

	result := make(CellMap, len(body))
	for key, cell := range body {
		transformed := cell
		for _, op := range expr.Ops {
			transformed, err = e.applyTransformOp(op, transformed, key)
			if err != nil {
				return nil, err
			}
		}
		result[key] = transformed
	}
	return result, nil
}

func (e *Expander) applyTransformOp(op TransformOp, cell Cell, key CellKey) (Cell, error) {
	switch op.Kind {
	case "transpose":
		midi, isSentinel, err := music.ParseNote(cell.Note)
		if err != nil {
			return cell, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: err.Error()}
		}
		if !isSentinel {
			cell.Note = music.FormatNote(midi + int(op.Amount))
		}
	case "velocity_scale":
		if cell.Vol != nil {
			scaled := int(float64(*cell.Vol) * op.Amount)
			cell.Vol = &scaled
		}
	}
	return cell, nil
}

func (e *Expander) evalProb(expr PatternExpr, depth int) (CellMap, error) {
	if expr.PPermille > 1000 {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "p_permille must be <= 1000"}
	}
	if expr.Body == nil {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "prob requires body"}
	}
	body, err := e.eval(*expr.Body, depth+1)
	if err != nil {
		return nil, err
	}
	if expr.PPermille <= 0 {
		return body, nil
	}
	if expr.PPermille >= 1000 {
		return make(CellMap), nil
	}

	rng := e.rngFor(expr.SeedSalt)
	result := make(CellMap)
	for _, key := range body.SortedKeys() {
		draw := rng.Float64() * 1000
		if draw < float64(expr.PPermille) {
			continue
		}
		result[key] = body[key]
	}
	return result, nil
}

func (e *Expander) evalChoose(expr PatternExpr, depth int) (CellMap, error) {
	if len(expr.Choices) == 0 {
		return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "choose requires at least one choice"}
	}
	total := 0.0
	for _, c := range expr.Choices {
		if c.Weight <= 0 {
			return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: "choose weights must be positive"}
		}
		total += c.Weight
	}

	rng := e.rngFor(expr.SeedSalt)
	draw := rng.Uniform(0, total)
	cumulative := 0.0
	for _, c := range expr.Choices {
		cumulative += c.Weight
		if draw < cumulative {
			return e.eval(c.Body, depth+1)
		}
	}
	return e.eval(expr.Choices[len(expr.Choices)-1].Body, depth+1)
}

// rngFor derives the salted RNG for this pattern's Prob/Choose/Transform
// stochastic steps. The salt order is (seed, pattern_name, seed_salt),
// matching the original implementation's expander (see DESIGN.md).
func (e *Expander) rngFor(seedSalt string) *audio.PCG32 {
	salt := e.PatternName + "|" + seedSalt
	return audio.RNGForSalt(e.Seed, salt)
}

func mergeCellMaps(a, b CellMap, policy MergePolicy) (CellMap, error) {
	result := make(CellMap, len(a)+len(b))
	for k, v := range a {
		result[k] = v
	}
	for k, v := range b {
		existing, exists := result[k]
		if !exists {
			result[k] = v
			continue
		}
		switch policy {
		case PolicyFirstWins:
			// keep existing
		case PolicyLastWins:
			result[k] = v
		case PolicyMergeFields:
			result[k] = mergeFields(existing, v)
		default: // error
			return nil, &specerr.SpecError{Code: specerr.CodeInvalidExpr, Message: fmt.Sprintf("merge conflict at row %d channel %d", k.Row, k.Channel)}
		}
	}
	return result, nil
}

// mergeFields unions non-empty fields of new onto existing, with new
// winning on a field collision (spec §4.9.3).
func mergeFields(existing, next Cell) Cell {
	out := existing
	if next.Note != "" {
		out.Note = next.Note
	}
	if next.Inst != 0 {
		out.Inst = next.Inst
	}
	if next.Vol != nil {
		out.Vol = next.Vol
	}
	if next.Effect != nil {
		out.Effect = next.Effect
	}
	if next.Param != nil {
		out.Param = next.Param
	}
	if next.EffectName != "" {
		out.EffectName = next.EffectName
	}
	if next.EffectXY != "" {
		out.EffectXY = next.EffectXY
	}
	return out
}
