package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetEvictWithoutIndex(t *testing.T) {
	provider, err := NewLocalProvider(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	store := NewStore(provider, nil)

	key := Key("recipehash", 7, "speccade-dev", false)
	ctx := context.Background()

	err = store.Put(ctx, key, []byte("output bytes"), []byte(`{"ok":true}`), "recipehash", 7, "speccade-dev", false)
	require.NoError(t, err)

	outputBytes, reportJSON, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "output bytes", string(outputBytes))
	assert.Equal(t, `{"ok":true}`, string(reportJSON))

	require.NoError(t, store.Evict(ctx, key))
	_, _, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("recipehash", 7, "speccade-dev", false)
	b := Key("recipehash", 7, "speccade-dev", false)
	c := Key("recipehash", 8, "speccade-dev", false)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
