package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRecordQueryDelete(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache-index.db")

	migrationsDir, err := filepath.Abs("migrations")
	require.NoError(t, err)
	require.NoError(t, MigrateUp("sqlite3://"+dbPath, migrationsDir))

	idx, err := OpenIndex(dbPath)
	require.NoError(t, err)
	defer idx.Close()

	ctx := context.Background()
	entry := IndexEntry{
		Key:            "abc123",
		RecipeHash:     "recipehash",
		Seed:           7,
		BackendVersion: "speccade-dev",
		Preview:        false,
		OutputBytes:    1024,
	}
	require.NoError(t, idx.Record(ctx, entry))

	entries, err := idx.ByRecipeHash(ctx, "recipehash")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.Key, entries[0].Key)

	require.NoError(t, idx.Delete(ctx, entry.Key))
	entries, err = idx.ByRecipeHash(ctx, "recipehash")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
