package spec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeSortsKeys(t *testing.T) {
	in := map[string]interface{}{"b": 1, "a": 2}
	out, err := Canonicalize(in)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, string(out))
}

func TestCanonicalizeIntegerVsFloat(t *testing.T) {
	out, err := Canonicalize(map[string]interface{}{"n": 3, "f": 3.5})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"n":3`)
	assert.Contains(t, string(out), `"f":3.5`)
}

func TestCanonicalizeIdempotent(t *testing.T) {
	s := Spec{SpecVersion: 1, AssetID: "hero-jump", AssetType: AssetAudio, Seed: 7,
		Outputs: []OutputSpec{{Kind: OutputPrimary, Format: FormatWAV, Path: "out.wav"}}}

	first, err := Canonicalize(s)
	require.NoError(t, err)

	var reparsed Spec
	require.NoError(t, json.Unmarshal(first, &reparsed))

	second, err := Canonicalize(reparsed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSpecHashStableAndDistinct(t *testing.T) {
	a := Spec{SpecVersion: 1, AssetID: "hero-jump", AssetType: AssetAudio, Seed: 1,
		Outputs: []OutputSpec{{Kind: OutputPrimary, Format: FormatWAV, Path: "out.wav"}}}
	b := a
	b.Seed = 2

	hashA1, err := SpecHash(a)
	require.NoError(t, err)
	hashA2, err := SpecHash(a)
	require.NoError(t, err)
	hashB, err := SpecHash(b)
	require.NoError(t, err)

	assert.Equal(t, hashA1, hashA2)
	assert.NotEqual(t, hashA1, hashB)
}

func TestRecipeHashIndependentOfOutputs(t *testing.T) {
	recipe := &Recipe{Kind: "audio_v1", Params: []byte(`{"duration_seconds":1}`)}
	h1, err := RecipeHash(recipe)
	require.NoError(t, err)

	specA := Spec{SpecVersion: 1, AssetID: "a-one", AssetType: AssetAudio, Recipe: recipe,
		Outputs: []OutputSpec{{Kind: OutputPrimary, Format: FormatWAV, Path: "a.wav"}}}
	specB := specA
	specB.Outputs = []OutputSpec{{Kind: OutputPrimary, Format: FormatWAV, Path: "b.wav"}}

	h2, err := RecipeHash(specB.Recipe)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}
