package validate

import (
	"fmt"

	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/music"
	"github.com/speccade/speccade/music/compose"
	"github.com/speccade/speccade/spec"
)

// formatBudget picks the per-format ceiling a tracker params document
// should be checked against.
func formatBudget(format music.Format, budget spec.MusicBudget) spec.MusicFormatBudget {
	if format == music.FormatIT {
		return budget.IT
	}
	return budget.XM
}

// MusicRecipePass runs the tracker budget and structural checks (spec
// §4.2) against an already-literal tracker params document: channel
// count within the per-format budget, pattern rows within the
// per-format max, arrangement pattern names resolvable, note
// instrument indices in range, and the primary output format
// matching params.Format.
func MusicRecipePass(params music.TrackerParams, outputs []spec.OutputSpec, budget spec.MusicBudget) *Result {
	r := &Result{}
	fb := formatBudget(params.Format, budget)

	if params.Channels > fb.MaxChannels {
		r.AddError(specerr.CodeBudgetChannels, "recipe.params.channels",
			fmt.Sprintf("channels %d exceeds budget max %d for format %s", params.Channels, fb.MaxChannels, params.Format))
	}
	if len(params.Patterns) > fb.MaxPatterns {
		r.AddError(specerr.CodeBudgetRows, "recipe.params.patterns",
			fmt.Sprintf("%d patterns exceeds budget max %d for format %s", len(params.Patterns), fb.MaxPatterns, params.Format))
	}
	if len(params.Instruments) > fb.MaxInstruments {
		r.AddError(specerr.CodeBudgetChannels, "recipe.params.instruments",
			fmt.Sprintf("%d instruments exceeds budget max %d for format %s", len(params.Instruments), fb.MaxInstruments, params.Format))
	}

	for name, pattern := range params.Patterns {
		if pattern.Rows > fb.MaxRows {
			r.AddError(specerr.CodeBudgetRows, fmt.Sprintf("recipe.params.patterns[%s].rows", name),
				fmt.Sprintf("%d rows exceeds budget max %d for format %s", pattern.Rows, fb.MaxRows, params.Format))
		}
		for _, n := range pattern.Cells() {
			if n.Inst < 0 || n.Inst >= len(params.Instruments) {
				r.AddError(specerr.CodeUnknownInstrument, fmt.Sprintf("recipe.params.patterns[%s]", name),
					fmt.Sprintf("note at row %d channel %d references out-of-range instrument %d", n.Row, n.Channel, n.Inst))
			}
		}
	}

	for i, entry := range params.Arrangement {
		if _, ok := params.Patterns[entry.Pattern]; !ok {
			r.AddError(specerr.CodeUnknownPattern, fmt.Sprintf("recipe.params.arrangement[%d].pattern", i),
				fmt.Sprintf("arrangement references unknown pattern %q", entry.Pattern))
		}
	}

	wantFormat := spec.FormatXM
	if params.Format == music.FormatIT {
		wantFormat = spec.FormatIT
	}
	hasPrimary := false
	for _, out := range outputs {
		if out.Kind == spec.OutputPrimary && out.Format == wantFormat {
			hasPrimary = true
		}
	}
	if !hasPrimary {
		r.AddError(specerr.CodeNoPrimaryOutput, "outputs",
			fmt.Sprintf("tracker recipe requires a primary output of format %s matching params.format", wantFormat))
	}

	return r
}

// ComposeRecipePass expands a music.tracker_song_compose_v1 document
// and runs MusicRecipePass against the result, surfacing expansion
// failures (RecursionLimit, CellLimit, RefCycle, UnknownInstrument,
// UnknownPattern) as ordinary validation errors rather than panics
// (spec §4.2).
func ComposeRecipePass(params compose.Params, outputs []spec.OutputSpec, budget spec.MusicBudget, seed uint32) *Result {
	r := &Result{}

	expanded, err := compose.Expand(params, seed)
	if err != nil {
		if specErr, ok := asSpecError(err); ok {
			r.Errors = append(r.Errors, specErr)
			return r
		}
		r.AddError(specerr.CodeInvalidExpr, "recipe.params", "compose expansion failed: "+err.Error())
		return r
	}

	return MusicRecipePass(expanded, outputs, budget)
}

// asSpecError unwraps a *specerr.SpecError from an error chain built
// with fmt.Errorf's %w, since compose.Expand wraps per-pattern
// failures with pattern-name context.
func asSpecError(err error) (*specerr.SpecError, bool) {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if se, ok := err.(*specerr.SpecError); ok {
			return se, true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
