package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderRoundTrips(t *testing.T) {
	provider, err := NewLocalProvider(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	ctx := context.Background()
	key := "aa/bb/entry.bin"
	content := "deterministic bytes"

	t.Run("put", func(t *testing.T) {
		err := provider.Put(ctx, key, strings.NewReader(content), int64(len(content)))
		assert.NoError(t, err)
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := provider.Exists(ctx, key)
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("get", func(t *testing.T) {
		reader, err := provider.Get(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		buf := make([]byte, len(content))
		n, err := reader.Read(buf)
		assert.NoError(t, err)
		assert.Equal(t, content, string(buf[:n]))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, provider.Delete(ctx, key))
		exists, err := provider.Exists(ctx, key)
		assert.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestLocalProviderRejectsPathTraversal(t *testing.T) {
	provider, err := NewLocalProvider(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = provider.securePath("../../../../etc/passwd")
	assert.Error(t, err)
}

func TestNewProviderFactory(t *testing.T) {
	cases := []struct {
		name        string
		backend     string
		expectError bool
	}{
		{"local", "local", false},
		{"filesystem alias", "filesystem", false},
		{"default to local", "", false},
		{"unknown backend", "bogus", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewProvider(Config{Backend: tc.backend, BaseDir: t.TempDir()})
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, p)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}
