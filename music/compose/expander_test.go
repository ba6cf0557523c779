package compose

import (
	"testing"

	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func musicPattern(row, channel int, note string, inst int) music.TrackerPattern {
	return music.TrackerPattern{Rows: 64, Data: []music.TrackerNote{
		{Row: row, Channel: channel, Note: note, Inst: inst},
	}}
}

func newTestExpander(defs map[string]PatternExpr) *Expander {
	return NewExpander(defs, map[string]int{"lead": 0, "bass": 1}, nil, 64, 4, "test-pattern", 42)
}

func TestEvalEmitProducesOneCellPerRow(t *testing.T) {
	e := newTestExpander(nil)
	channel := 0
	expr := PatternExpr{Kind: ExprEmit, At: &TimeExpr{Start: 0, Step: 4, Count: 4},
		Cell: &CellTemplate{Channel: &channel, Note: "C4", Inst: "lead"}}

	cells, err := e.Eval(expr)
	require.NoError(t, err)
	assert.Len(t, cells, 4)
	assert.Equal(t, "C4", cells[CellKey{Row: 0, Channel: 0}].Note)
	assert.Equal(t, 0, cells[CellKey{Row: 0, Channel: 0}].Inst)
}

func TestEvalEmitUnknownInstrument(t *testing.T) {
	e := newTestExpander(nil)
	expr := PatternExpr{Kind: ExprEmit, At: &TimeExpr{Start: 0, Count: 1},
		Cell: &CellTemplate{Note: "C4", Inst: "nonexistent"}}

	_, err := e.Eval(expr)
	require.Error(t, err)
	specErr, ok := err.(*specerr.SpecError)
	require.True(t, ok)
	assert.Equal(t, specerr.CodeUnknownInstrument, specErr.Code)
}

func TestExpansionIsDeterministic(t *testing.T) {
	expr := PatternExpr{
		Kind: ExprProb, PPermille: 400, SeedSalt: "fills",
		Body: &PatternExpr{Kind: ExprEmit, At: &TimeExpr{Start: 0, Step: 1, Count: 16},
			Cell: &CellTemplate{Note: "C4", Inst: "lead"}},
	}

	e1 := newTestExpander(nil)
	out1, err := e1.Eval(expr)
	require.NoError(t, err)

	e2 := newTestExpander(nil)
	out2, err := e2.Eval(expr)
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
}

func TestRefCycleDetected(t *testing.T) {
	defs := map[string]PatternExpr{
		"a": {Kind: ExprRef, Name: "b"},
		"b": {Kind: ExprRef, Name: "a"},
	}
	e := newTestExpander(defs)
	_, err := e.Eval(PatternExpr{Kind: ExprRef, Name: "a"})
	require.Error(t, err)
	specErr, ok := err.(*specerr.SpecError)
	require.True(t, ok)
	assert.Equal(t, specerr.CodeRefCycle, specErr.Code)
}

func TestCellLimitEnforced(t *testing.T) {
	e := newTestExpander(nil)
	e.PatternRows = MaxCellsPerPattern + 10
	expr := PatternExpr{Kind: ExprEmit, At: &TimeExpr{Start: 0, Step: 1, Count: MaxCellsPerPattern + 1},
		Cell: &CellTemplate{Note: "C4", Inst: "lead"}}

	_, err := e.Eval(expr)
	require.Error(t, err)
	specErr, ok := err.(*specerr.SpecError)
	require.True(t, ok)
	assert.Equal(t, specerr.CodeCellLimit, specErr.Code)
}

func TestRepeatTilesWithOffset(t *testing.T) {
	e := newTestExpander(nil)
	channel := 0
	body := PatternExpr{Kind: ExprEmit, At: &TimeExpr{Start: 0, Count: 1},
		Cell: &CellTemplate{Channel: &channel, Note: "C4", Inst: "lead"}}
	expr := PatternExpr{Kind: ExprRepeat, Times: 4, LenRows: 4, Body: &body}

	cells, err := e.Eval(expr)
	require.NoError(t, err)
	assert.Len(t, cells, 4)
	for i := 0; i < 4; i++ {
		_, ok := cells[CellKey{Row: int32(i * 4), Channel: 0}]
		assert.True(t, ok)
	}
}

func TestStackMergeFieldsPolicy(t *testing.T) {
	e := newTestExpander(nil)
	channel := 0
	volA := 40
	partA := PatternExpr{Kind: ExprEmit, At: &TimeExpr{Start: 0, Count: 1},
		Cell: &CellTemplate{Channel: &channel, Note: "C4", Inst: "lead", Vol: &volA}}
	partB := PatternExpr{Kind: ExprEmit, At: &TimeExpr{Start: 0, Count: 1},
		Cell: &CellTemplate{Channel: &channel, Note: "D4", Inst: "lead"}}
	expr := PatternExpr{Kind: ExprStack, Merge: PolicyMergeFields, Parts: []PatternExpr{partA, partB}}

	cells, err := e.Eval(expr)
	require.NoError(t, err)
	cell := cells[CellKey{Row: 0, Channel: 0}]
	assert.Equal(t, "D4", cell.Note) // new wins on collision
	assert.Equal(t, 40, *cell.Vol)   // unioned from first part, not overwritten by a nil
}

func TestManualOverrideLastWins(t *testing.T) {
	e := newTestExpander(nil)
	channel := 0
	program := PatternExpr{Kind: ExprEmit, At: &TimeExpr{Start: 0, Count: 1},
		Cell: &CellTemplate{Channel: &channel, Note: "C4", Inst: "lead"}}

	literal := musicPattern(0, 0, "E4", 1)
	out, err := ExpandPattern(e, program, literal)
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "E4", out.Data[0].Note)
}
