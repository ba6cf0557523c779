// Package spec defines SpecCade's core document model: the Spec
// itself, output declarations, recipes, variants, canonical
// serialisation and content hashing, and budget profiles. Domain
// packages (validate, audio, music) own the typed shape of
// recipe.params; spec only carries it as raw JSON so this package has
// no dependency on any recipe kind.
package spec

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// AssetType enumerates the families a Spec can declare.
type AssetType string

const (
	AssetAudio             AssetType = "audio"
	AssetMusic             AssetType = "music"
	AssetTexture           AssetType = "texture"
	AssetStaticMesh        AssetType = "static_mesh"
	AssetSkeletalMesh      AssetType = "skeletal_mesh"
	AssetSkeletalAnimation AssetType = "skeletal_animation"
	AssetUI                AssetType = "ui"
	AssetFont              AssetType = "font"
	AssetSprite            AssetType = "sprite"
	AssetVFX               AssetType = "vfx"
)

var assetIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{2,63}$`)

// AssetIDPattern exposes the asset_id shape rule for validators and tests.
func AssetIDPattern() *regexp.Regexp { return assetIDPattern }

// OutputKind enumerates the role an OutputSpec plays.
type OutputKind string

const (
	OutputPrimary  OutputKind = "primary"
	OutputMetadata OutputKind = "metadata"
	OutputPreview  OutputKind = "preview"
	OutputSide     OutputKind = "side"
)

// OutputFormat enumerates the binary/text format of an output file.
type OutputFormat string

const (
	FormatWAV  OutputFormat = "wav"
	FormatXM   OutputFormat = "xm"
	FormatIT   OutputFormat = "it"
	FormatPNG  OutputFormat = "png"
	FormatGLB  OutputFormat = "glb"
	FormatGLTF OutputFormat = "gltf"
	FormatJSON OutputFormat = "json"
)

// canonicalExtensions maps each OutputFormat to its expected file extension.
var canonicalExtensions = map[OutputFormat]string{
	FormatWAV:  ".wav",
	FormatXM:   ".xm",
	FormatIT:   ".it",
	FormatPNG:  ".png",
	FormatGLB:  ".glb",
	FormatGLTF: ".gltf",
	FormatJSON: ".json",
}

// CanonicalExtension returns the expected extension for a format, and
// whether the format is known.
func CanonicalExtension(f OutputFormat) (string, bool) {
	ext, ok := canonicalExtensions[f]
	return ext, ok
}

// OutputSpec declares a single artifact a generation run produces.
type OutputSpec struct {
	Kind   OutputKind   `json:"kind"`
	Format OutputFormat `json:"format"`
	Path   string       `json:"path"`
	Source string       `json:"source,omitempty"`
}

// ExtensionMatches reports whether Path's extension equals Format's
// canonical extension.
func (o OutputSpec) ExtensionMatches() bool {
	ext, ok := canonicalExtensions[o.Format]
	if !ok {
		return false
	}
	return len(o.Path) >= len(ext) && o.Path[len(o.Path)-len(ext):] == ext
}

// Recipe pairs a recipe kind with its raw parameter document. Domain
// packages decode Params into their own typed structure.
type Recipe struct {
	Kind   string          `json:"kind"`
	Params json.RawMessage `json:"params"`
}

// Variant carries only overrides layered on top of a base Spec.
type Variant struct {
	VariantID      string                 `json:"variant_id"`
	SeedOverride   *uint32                `json:"seed_override,omitempty"`
	ParamOverrides map[string]interface{} `json:"param_overrides,omitempty"`
}

// Spec is the top-level, immutable input document.
type Spec struct {
	SpecVersion    int          `json:"spec_version"`
	AssetID        string       `json:"asset_id"`
	AssetType      AssetType    `json:"asset_type"`
	License        string       `json:"license,omitempty"`
	Seed           uint32       `json:"seed"`
	Outputs        []OutputSpec `json:"outputs"`
	Recipe         *Recipe      `json:"recipe,omitempty"`
	Description    string       `json:"description,omitempty"`
	StyleTags      []string     `json:"style_tags,omitempty"`
	Variants       []Variant    `json:"variants,omitempty"`
	MigrationNotes string       `json:"migration_notes,omitempty"`
}

// RecipeKindPrefix returns the asset_type_prefix of a recipe kind
// string, e.g. "audio_v1" -> "audio", "music.tracker_song_v1" ->
// "music". The unqualified "audio_v1" form is the documented historical
// exception.
func RecipeKindPrefix(kind string) string {
	for i, r := range kind {
		if r == '.' {
			return kind[:i]
		}
	}
	if kind == "audio_v1" {
		return "audio"
	}
	return kind
}

// ApplyVariant merges a Variant's overrides on top of a base Spec and
// returns the new, independent Spec. It does not mutate base.
func ApplyVariant(base Spec, v Variant) (Spec, error) {
	out := base
	out.Variants = nil

	if v.SeedOverride != nil {
		out.Seed = *v.SeedOverride
	}

	if len(v.ParamOverrides) == 0 {
		return out, nil
	}
	if out.Recipe == nil {
		return out, fmt.Errorf("variant %s has param_overrides but base spec has no recipe", v.VariantID)
	}

	var params map[string]interface{}
	if err := json.Unmarshal(out.Recipe.Params, &params); err != nil {
		return out, fmt.Errorf("variant %s: decoding base recipe params: %w", v.VariantID, err)
	}
	for k, val := range v.ParamOverrides {
		params[k] = val
	}
	merged, err := json.Marshal(params)
	if err != nil {
		return out, fmt.Errorf("variant %s: re-encoding merged params: %w", v.VariantID, err)
	}
	out.Recipe = &Recipe{Kind: out.Recipe.Kind, Params: merged}
	return out, nil
}
