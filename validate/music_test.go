package validate

import (
	"testing"

	"github.com/speccade/speccade/music"
	"github.com/speccade/speccade/music/compose"
	"github.com/speccade/speccade/spec"
	"github.com/stretchr/testify/assert"
)

func validTrackerParams() music.TrackerParams {
	return music.TrackerParams{
		Format:   music.FormatXM,
		BPM:      125,
		Speed:    6,
		Channels: 4,
		Instruments: []music.TrackerInstrument{
			{Name: "lead", BaseNote: 60},
		},
		Patterns: map[string]music.TrackerPattern{
			"main": {
				Rows: 16,
				Data: []music.TrackerNote{
					{Row: 0, Channel: 0, Note: "C4", Inst: 0},
				},
			},
		},
		Arrangement: []music.ArrangementEntry{{Pattern: "main", Repeat: 1}},
		SongName:    "test",
		Title:       "test",
	}
}

func trackerOutputs() []spec.OutputSpec {
	return []spec.OutputSpec{{Kind: spec.OutputPrimary, Format: spec.FormatXM, Path: "out.xm"}}
}

func TestMusicRecipePassAcceptsValidParams(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	r := MusicRecipePass(validTrackerParams(), trackerOutputs(), budget.Music)
	assert.True(t, r.OK())
}

func TestMusicRecipePassRejectsChannelsOverBudget(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("zx-8bit")
	params := validTrackerParams()
	params.Channels = 999
	r := MusicRecipePass(params, trackerOutputs(), budget.Music)
	assert.False(t, r.OK())
}

func TestMusicRecipePassRejectsPatternRowsOverBudget(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	params := validTrackerParams()
	pattern := params.Patterns["main"]
	pattern.Rows = 100000
	params.Patterns["main"] = pattern
	r := MusicRecipePass(params, trackerOutputs(), budget.Music)
	assert.False(t, r.OK())
}

func TestMusicRecipePassRejectsUnknownArrangementPattern(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	params := validTrackerParams()
	params.Arrangement = []music.ArrangementEntry{{Pattern: "missing", Repeat: 1}}
	r := MusicRecipePass(params, trackerOutputs(), budget.Music)
	assert.False(t, r.OK())
}

func TestMusicRecipePassRejectsOutOfRangeInstrument(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	params := validTrackerParams()
	pattern := params.Patterns["main"]
	pattern.Data = append(pattern.Data, music.TrackerNote{Row: 1, Channel: 0, Note: "D4", Inst: 7})
	params.Patterns["main"] = pattern
	r := MusicRecipePass(params, trackerOutputs(), budget.Music)
	assert.False(t, r.OK())
}

func TestMusicRecipePassRequiresMatchingPrimaryFormat(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	params := validTrackerParams()
	outputs := []spec.OutputSpec{{Kind: spec.OutputPrimary, Format: spec.FormatIT, Path: "out.it"}}
	r := MusicRecipePass(params, outputs, budget.Music)
	assert.False(t, r.OK())
}

func validComposeParams() compose.Params {
	return compose.Params{
		Format:   music.FormatXM,
		BPM:      120,
		Speed:    6,
		Channels: 4,
		Instruments: []music.TrackerInstrument{
			{Name: "lead", BaseNote: 60},
		},
		Patterns: map[string]compose.PatternProgram{
			"main": {
				Rows: 16,
				Program: &compose.PatternExpr{
					Kind: compose.ExprEmit,
					At:   &compose.TimeExpr{Start: 0, Step: 4, Count: 4},
					Cell: &compose.CellTemplate{Note: "C4", Inst: "lead"},
				},
			},
		},
		Arrangement: []music.ArrangementEntry{{Pattern: "main", Repeat: 1}},
		SongName:    "test",
		Title:       "test",
	}
}

func TestComposeRecipePassAcceptsValidParams(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	r := ComposeRecipePass(validComposeParams(), trackerOutputs(), budget.Music, 1)
	assert.True(t, r.OK())
}

func TestComposeRecipePassSurfacesExpansionError(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	params := validComposeParams()
	params.Patterns["main"].Program.Cell.Inst = "nonexistent"
	r := ComposeRecipePass(params, trackerOutputs(), budget.Music, 1)
	assert.False(t, r.OK())
}
