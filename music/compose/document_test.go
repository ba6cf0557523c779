package compose

import (
	"encoding/json"
	"testing"

	"github.com/speccade/speccade/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeParamsAndExpand(t *testing.T) {
	raw := json.RawMessage(`{
		"format": "xm",
		"bpm": 120,
		"speed": 6,
		"channels": 4,
		"instruments": [{"name": "lead", "base_note": 60}],
		"patterns": {
			"main": {
				"rows": 16,
				"program": {
					"kind": "emit",
					"at": {"start": 0, "step": 4, "count": 4},
					"cell": {"note": "C4", "inst": "lead"}
				}
			}
		},
		"arrangement": [{"pattern": "main", "repeat": 1}],
		"song_name": "doc-test",
		"title": "doc-test"
	}`)

	params, err := DecodeParams(raw)
	require.NoError(t, err)
	assert.Equal(t, music.FormatXM, params.Format)

	tp, err := Expand(*params, 7)
	require.NoError(t, err)
	assert.Len(t, tp.Patterns["main"].Data, 4)
}

func TestExpandPropagatesPatternError(t *testing.T) {
	params := Params{
		Patterns: map[string]PatternProgram{
			"broken": {
				Rows: 4,
				Program: &PatternExpr{Kind: ExprEmit,
					At:   &TimeExpr{Start: 0, Count: 1},
					Cell: &CellTemplate{Note: "C4", Inst: "nonexistent"}},
			},
		},
	}

	_, err := Expand(params, 1)
	require.Error(t, err)
}
