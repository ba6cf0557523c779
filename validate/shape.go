package validate

import (
	"fmt"

	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/spec"
)

var knownAssetTypes = map[spec.AssetType]bool{
	spec.AssetAudio:             true,
	spec.AssetMusic:             true,
	spec.AssetTexture:           true,
	spec.AssetStaticMesh:        true,
	spec.AssetSkeletalMesh:      true,
	spec.AssetSkeletalAnimation: true,
	spec.AssetUI:                true,
	spec.AssetFont:              true,
	spec.AssetSprite:            true,
	spec.AssetVFX:               true,
}

// ShapePass runs the structural checks common to every asset type:
// spec_version, asset_id shape, asset_type membership, output array
// shape, path safety/uniqueness, extension coherence, and
// recipe-kind-prefix agreement (spec §4.2). The seed is not checked;
// its uint32 type already bounds it.
func ShapePass(s spec.Spec) *Result {
	r := &Result{}

	if s.SpecVersion != 1 {
		r.AddError(specerr.CodeBadSpecVersion, "spec_version", fmt.Sprintf("unsupported spec_version %d, expected 1", s.SpecVersion))
	}

	if !spec.AssetIDPattern().MatchString(s.AssetID) {
		r.AddError(specerr.CodeBadAssetID, "asset_id", fmt.Sprintf("asset_id %q does not match ^[a-z][a-z0-9_-]{2,63}$", s.AssetID))
	}

	if !knownAssetTypes[s.AssetType] {
		r.AddError(specerr.CodeBadAssetType, "asset_type", fmt.Sprintf("unknown asset_type %q", s.AssetType))
	}

	if s.License == "" {
		r.AddWarning(specerr.WarnEmptyLicense, "license", "license is empty")
	}

	validateOutputs(s, r)

	if s.Recipe != nil {
		prefix := spec.RecipeKindPrefix(s.Recipe.Kind)
		if prefix != string(s.AssetType) {
			r.AddError(specerr.CodeRecipeKindPrefix, "recipe.kind",
				fmt.Sprintf("recipe kind %q has prefix %q, expected %q", s.Recipe.Kind, prefix, s.AssetType))
		}
	}

	return r
}

func validateOutputs(s spec.Spec, r *Result) {
	if len(s.Outputs) == 0 {
		r.AddError(specerr.CodeNoOutputs, "outputs", "at least one output is required")
		return
	}

	hasPrimary := false
	seenPaths := make(map[string]int)

	for i, out := range s.Outputs {
		path := fmt.Sprintf("outputs[%d]", i)

		if out.Kind == spec.OutputPrimary {
			hasPrimary = true
		}

		if !IsSafePath(out.Path) {
			r.AddError(specerr.CodeUnsafePath, path+".path", fmt.Sprintf("unsafe output path %q", out.Path))
		} else if firstIdx, ok := seenPaths[out.Path]; ok {
			r.AddError(specerr.CodeDuplicateOutputPath, path+".path",
				fmt.Sprintf("output path %q duplicates outputs[%d]", out.Path, firstIdx))
		} else {
			seenPaths[out.Path] = i
		}

		if !out.ExtensionMatches() {
			r.AddError(specerr.CodeExtensionMismatch, path+".path",
				fmt.Sprintf("path %q does not match canonical extension for format %q", out.Path, out.Format))
		}
	}

	if !hasPrimary {
		r.AddError(specerr.CodeNoPrimaryOutput, "outputs", "no output has kind \"primary\"")
	}
}

// RequireRecipe reports a missing-recipe error when generation (as
// opposed to shape-only validation) is requested but s.Recipe is nil.
func RequireRecipe(s spec.Spec) *Result {
	r := &Result{}
	if s.Recipe == nil {
		r.AddError(specerr.CodeMissingRecipe, "recipe", "recipe is required for generation")
	}
	return r
}
