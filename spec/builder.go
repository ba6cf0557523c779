package spec

import "encoding/json"

// Builder provides a fluent interface for constructing a Spec,
// mirroring the teacher codebase's OptionsBuilder pattern: each method
// mutates and returns the same builder so calls chain.
type Builder struct {
	spec *Spec
}

// NewBuilder starts a Spec with spec_version 1 and the given asset_id
// and asset_type.
func NewBuilder(assetID string, assetType AssetType) *Builder {
	return &Builder{
		spec: &Spec{
			SpecVersion: 1,
			AssetID:     assetID,
			AssetType:   assetType,
		},
	}
}

// Seed sets the spec's seed.
func (b *Builder) Seed(seed uint32) *Builder {
	b.spec.Seed = seed
	return b
}

// License sets the SPDX license string.
func (b *Builder) License(license string) *Builder {
	b.spec.License = license
	return b
}

// Description sets the free-form description.
func (b *Builder) Description(desc string) *Builder {
	b.spec.Description = desc
	return b
}

// StyleTags sets the style tag list.
func (b *Builder) StyleTags(tags ...string) *Builder {
	b.spec.StyleTags = tags
	return b
}

// AddOutput appends an output spec.
func (b *Builder) AddOutput(out OutputSpec) *Builder {
	b.spec.Outputs = append(b.spec.Outputs, out)
	return b
}

// Recipe sets the recipe kind and marshals params into the recipe's
// raw parameter document.
func (b *Builder) Recipe(kind string, params interface{}) *Builder {
	raw, err := json.Marshal(params)
	if err != nil {
		// Builder methods don't return an error; an unmarshalable
		// params value is replaced by an empty {} params document,
		// and Build does not report the failure.
		raw = json.RawMessage(`{}`)
	}
	b.spec.Recipe = &Recipe{Kind: kind, Params: raw}
	return b
}

// AddVariant appends a variant declaration.
func (b *Builder) AddVariant(v Variant) *Builder {
	b.spec.Variants = append(b.spec.Variants, v)
	return b
}

// MigrationNotes sets the migration_notes field.
func (b *Builder) MigrationNotes(notes string) *Builder {
	b.spec.MigrationNotes = notes
	return b
}

// Build returns the constructed Spec by value.
func (b *Builder) Build() Spec {
	return *b.spec
}
