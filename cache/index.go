package cache

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// IndexEntry is one row of the cache bookkeeping index.
type IndexEntry struct {
	Key            string `db:"key"`
	RecipeHash     string `db:"recipe_hash"`
	Seed           uint32 `db:"seed"`
	BackendVersion string `db:"backend_version"`
	Preview        bool   `db:"preview"`
	OutputBytes    int64  `db:"output_bytes"`
}

// Index is a local SQLite index of cache entries, letting a caller
// enumerate or evict entries without re-hashing every spec on disk.
// Pure bookkeeping: the core never touches it (spec §6.7).
type Index struct {
	db *sqlx.DB
}

// OpenIndex opens (and, if dbPath does not yet exist, creates) the
// index database. Callers should run MigrateUp against the same path
// before first use.
func OpenIndex(dbPath string) (*Index, error) {
	db, err := sqlx.Connect("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("cache: open index: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Index{db: db}, nil
}

// Close closes the underlying database handle.
func (idx *Index) Close() error { return idx.db.Close() }

// Record inserts or replaces the bookkeeping row for one cache entry.
func (idx *Index) Record(ctx context.Context, e IndexEntry) error {
	_, err := idx.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, recipe_hash, seed, backend_version, preview, output_bytes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			recipe_hash = excluded.recipe_hash,
			seed = excluded.seed,
			backend_version = excluded.backend_version,
			preview = excluded.preview,
			output_bytes = excluded.output_bytes`,
		e.Key, e.RecipeHash, e.Seed, e.BackendVersion, e.Preview, e.OutputBytes)
	if err != nil {
		return fmt.Errorf("cache: record index entry: %w", err)
	}
	return nil
}

// Delete removes a bookkeeping row by key.
func (idx *Index) Delete(ctx context.Context, key string) error {
	_, err := idx.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("cache: delete index entry: %w", err)
	}
	return nil
}

// ByRecipeHash lists every indexed entry for a given recipe hash,
// across seeds and preview flags.
func (idx *Index) ByRecipeHash(ctx context.Context, recipeHash string) ([]IndexEntry, error) {
	var entries []IndexEntry
	err := idx.db.SelectContext(ctx, &entries,
		`SELECT key, recipe_hash, seed, backend_version, preview, output_bytes
		 FROM cache_entries WHERE recipe_hash = ? ORDER BY key`, recipeHash)
	if err != nil {
		return nil, fmt.Errorf("cache: query index: %w", err)
	}
	return entries, nil
}

// All lists every indexed entry.
func (idx *Index) All(ctx context.Context) ([]IndexEntry, error) {
	var entries []IndexEntry
	err := idx.db.SelectContext(ctx, &entries,
		`SELECT key, recipe_hash, seed, backend_version, preview, output_bytes
		 FROM cache_entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("cache: query index: %w", err)
	}
	return entries, nil
}
