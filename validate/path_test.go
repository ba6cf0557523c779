package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSafePath(t *testing.T) {
	cases := map[string]bool{
		"out.wav":              true,
		"nested/out.wav":       true,
		"":                     false,
		"/abs/out.wav":         false,
		"\\abs\\out.wav":       false,
		"C:/out.wav":           false,
		"nested\\out.wav":      false,
		"../escape.wav":        false,
		"nested/../escape.wav": false,
	}
	for path, want := range cases {
		assert.Equal(t, want, IsSafePath(path), "path %q", path)
	}
}
