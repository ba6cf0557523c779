package compose

import (
	"github.com/speccade/speccade/music"
)

// CellMapFromLiteralPattern converts a TrackerPattern's hand-authored
// Notes/Data into a CellMap, for merging on top of an evaluated
// program (spec §4.9.2).
func CellMapFromLiteralPattern(p music.TrackerPattern) CellMap {
	result := make(CellMap)
	for _, n := range p.Cells() {
		result[CellKey{Row: int32(n.Row), Channel: uint8(n.Channel)}] = Cell{
			Note: n.Note, Inst: n.Inst, Vol: n.Vol, Effect: n.Effect,
			Param: n.Param, EffectName: n.EffectName, EffectXY: n.EffectXY,
		}
	}
	return result
}

// ToTrackerPattern lowers a CellMap back to TrackerPattern.Data, sorted
// by (row, channel) so the output is deterministic regardless of map
// iteration order.
func (m CellMap) ToTrackerPattern(rows int) music.TrackerPattern {
	data := make([]music.TrackerNote, 0, len(m))
	for _, key := range m.SortedKeys() {
		cell := m[key]
		data = append(data, music.TrackerNote{
			Row: int(key.Row), Channel: int(key.Channel), Note: cell.Note, Inst: cell.Inst,
			Vol: cell.Vol, Effect: cell.Effect, Param: cell.Param,
			EffectName: cell.EffectName, EffectXY: cell.EffectXY,
		})
	}
	return music.TrackerPattern{Rows: rows, Data: data}
}

// ExpandPattern evaluates program, merges the pattern's literal
// data/notes on top with last_wins, and enforces the final cell-count
// ceiling (spec §4.9.1, §4.9.2).
func ExpandPattern(e *Expander, program PatternExpr, literal music.TrackerPattern) (music.TrackerPattern, error) {
	evaluated, err := e.Eval(program)
	if err != nil {
		return music.TrackerPattern{}, err
	}

	overrides := CellMapFromLiteralPattern(literal)
	merged, err := mergeCellMaps(evaluated, overrides, PolicyLastWins)
	if err != nil {
		return music.TrackerPattern{}, err
	}
	if err := checkCellLimit(merged); err != nil {
		return music.TrackerPattern{}, err
	}

	return merged.ToTrackerPattern(e.PatternRows), nil
}
