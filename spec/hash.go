package spec

import (
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

// SpecHash returns the lower-case hex BLAKE3 digest of s's canonical
// byte form.
func SpecHash(s Spec) (string, error) {
	canonical, err := Canonicalize(s)
	if err != nil {
		return "", fmt.Errorf("spec hash: %w", err)
	}
	return hashHex(canonical), nil
}

// RecipeHash returns the lower-case hex BLAKE3 digest of the recipe
// sub-document alone. A nil recipe hashes as zero input bytes.
func RecipeHash(r *Recipe) (string, error) {
	if r == nil {
		return hashHex(nil), nil
	}
	canonical, err := Canonicalize(r)
	if err != nil {
		return "", fmt.Errorf("recipe hash: %w", err)
	}
	return hashHex(canonical), nil
}

func hashHex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CacheKey computes the §6.7 cache key: BLAKE3 of
// (recipe_hash, seed, backend_version, preview_flag).
func CacheKey(recipeHash string, seed uint32, backendVersion string, preview bool) string {
	h := blake3.New(32, nil)
	h.Write([]byte(recipeHash))
	h.Write([]byte{byte(seed), byte(seed >> 8), byte(seed >> 16), byte(seed >> 24)})
	h.Write([]byte(backendVersion))
	if preview {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
