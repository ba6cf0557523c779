package validate

import (
	"testing"

	"github.com/speccade/speccade/spec"
	"github.com/stretchr/testify/assert"
)

func validSpec() spec.Spec {
	return spec.Spec{
		SpecVersion: 1,
		AssetID:     "hero-jump",
		AssetType:   spec.AssetAudio,
		License:     "CC0",
		Seed:        1,
		Outputs: []spec.OutputSpec{
			{Kind: spec.OutputPrimary, Format: spec.FormatWAV, Path: "out.wav"},
		},
	}
}

func TestShapePassAcceptsValidSpec(t *testing.T) {
	r := ShapePass(validSpec())
	assert.True(t, r.OK())
	assert.Empty(t, r.Warnings)
}

func TestShapePassRejectsBadSpecVersion(t *testing.T) {
	s := validSpec()
	s.SpecVersion = 2
	r := ShapePass(s)
	assert.False(t, r.OK())
	assert.Equal(t, "E001", string(r.Errors[0].Code))
}

func TestShapePassRejectsBadAssetID(t *testing.T) {
	s := validSpec()
	s.AssetID = "Hero Jump!"
	r := ShapePass(s)
	assert.False(t, r.OK())
}

func TestShapePassWarnsOnEmptyLicense(t *testing.T) {
	s := validSpec()
	s.License = ""
	r := ShapePass(s)
	assert.True(t, r.OK())
	assert.Len(t, r.Warnings, 1)
	assert.Equal(t, "W001", string(r.Warnings[0].Code))
}

func TestShapePassRequiresPrimaryOutput(t *testing.T) {
	s := validSpec()
	s.Outputs = []spec.OutputSpec{{Kind: spec.OutputMetadata, Format: spec.FormatJSON, Path: "meta.json"}}
	r := ShapePass(s)
	assert.False(t, r.OK())
}

func TestShapePassRejectsUnsafePath(t *testing.T) {
	s := validSpec()
	s.Outputs[0].Path = "/etc/passwd"
	r := ShapePass(s)
	assert.False(t, r.OK())
}

func TestShapePassRejectsDuplicatePaths(t *testing.T) {
	s := validSpec()
	s.Outputs = append(s.Outputs, spec.OutputSpec{Kind: spec.OutputPreview, Format: spec.FormatWAV, Path: "out.wav"})
	r := ShapePass(s)
	assert.False(t, r.OK())
}

func TestShapePassRejectsExtensionMismatch(t *testing.T) {
	s := validSpec()
	s.Outputs[0].Path = "out.mp3"
	r := ShapePass(s)
	assert.False(t, r.OK())
}

func TestShapePassRejectsRecipeKindPrefixMismatch(t *testing.T) {
	s := validSpec()
	s.Recipe = &spec.Recipe{Kind: "music.tracker_song_v1", Params: []byte(`{}`)}
	r := ShapePass(s)
	assert.False(t, r.OK())
}

func TestShapePassAcceptsAudioV1UnqualifiedPrefix(t *testing.T) {
	s := validSpec()
	s.Recipe = &spec.Recipe{Kind: "audio_v1", Params: []byte(`{}`)}
	r := ShapePass(s)
	assert.True(t, r.OK())
}
