package validate

import (
	"encoding/json"

	"github.com/speccade/speccade/audio"
	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/music"
	"github.com/speccade/speccade/music/compose"
	"github.com/speccade/speccade/spec"
)

// Spec runs the shape pass and, when a recipe is present, the
// recipe-specific budget pass, returning the combined diagnostics
// (spec §4.2). Callers that only need shape validation may pass a
// Spec with Recipe == nil.
func Spec(s spec.Spec, profile spec.BudgetProfile) *Result {
	result := ShapePass(s)
	if s.Recipe == nil {
		return result
	}

	switch spec.RecipeKindPrefix(s.Recipe.Kind) {
	case "audio":
		result.Merge(validateAudioRecipe(s, profile))
	case "music":
		result.Merge(validateMusicRecipe(s, profile))
	}

	return result
}

func validateAudioRecipe(s spec.Spec, profile spec.BudgetProfile) *Result {
	params, err := audio.DecodeParams(s.Recipe.Params)
	if err != nil {
		r := &Result{}
		r.AddError(specerr.CodeRecipeParamsInvalid, "recipe.params", "failed to decode audio_v1 params: "+err.Error())
		return r
	}
	return AudioRecipePass(params, s.Outputs, profile.Audio)
}

// validateMusicRecipe dispatches between the two music recipe kinds:
// music.tracker_song_v1 decodes straight to a literal tracker params
// document, music.tracker_song_compose_v1 decodes to a compose
// document that must be expanded before the same budget pass applies
// (spec §4.2).
func validateMusicRecipe(s spec.Spec, profile spec.BudgetProfile) *Result {
	switch s.Recipe.Kind {
	case "music.tracker_song_v1":
		var params music.TrackerParams
		if err := json.Unmarshal(s.Recipe.Params, &params); err != nil {
			r := &Result{}
			r.AddError(specerr.CodeRecipeParamsInvalid, "recipe.params", "failed to decode music.tracker_song_v1 params: "+err.Error())
			return r
		}
		return MusicRecipePass(params, s.Outputs, profile.Music)

	case "music.tracker_song_compose_v1":
		params, err := compose.DecodeParams(s.Recipe.Params)
		if err != nil {
			r := &Result{}
			r.AddError(specerr.CodeRecipeParamsInvalid, "recipe.params", "failed to decode music.tracker_song_compose_v1 params: "+err.Error())
			return r
		}
		return ComposeRecipePass(*params, s.Outputs, profile.Music, s.Seed)

	default:
		r := &Result{}
		r.AddError(specerr.CodeRecipeParamsInvalid, "recipe.kind", "unknown music recipe kind "+s.Recipe.Kind)
		return r
	}
}
