package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/speccade/speccade/spec"
)

// Store is the high-level cache facade a CLI or worker uses: it
// derives the §6.7 key, writes the output bytes and report JSON
// through a Provider, and records the entry in an Index so it can be
// enumerated without re-hashing every spec on disk.
type Store struct {
	provider Provider
	index    *Index
}

// NewStore pairs a Provider with an Index.
func NewStore(provider Provider, index *Index) *Store {
	return &Store{provider: provider, index: index}
}

// Key computes the §6.7 cache key for one (recipe_hash, seed,
// backend_version, preview_flag) tuple.
func Key(recipeHash string, seed uint32, backendVersion string, preview bool) string {
	return spec.CacheKey(recipeHash, seed, backendVersion, preview)
}

// Put stores outputBytes and reportJSON under key and records the
// entry in the index.
func (s *Store) Put(ctx context.Context, key string, outputBytes, reportJSON []byte, recipeHash string, seed uint32, backendVersion string, preview bool) error {
	if err := s.provider.Put(ctx, outputObjectKey(key), bytes.NewReader(outputBytes), int64(len(outputBytes))); err != nil {
		return fmt.Errorf("cache: store output: %w", err)
	}
	if err := s.provider.Put(ctx, reportObjectKey(key), bytes.NewReader(reportJSON), int64(len(reportJSON))); err != nil {
		return fmt.Errorf("cache: store report: %w", err)
	}
	if s.index != nil {
		if err := s.index.Record(ctx, IndexEntry{
			Key:            key,
			RecipeHash:     recipeHash,
			Seed:           seed,
			BackendVersion: backendVersion,
			Preview:        preview,
			OutputBytes:    int64(len(outputBytes)),
		}); err != nil {
			return fmt.Errorf("cache: index entry: %w", err)
		}
	}
	return nil
}

// Get retrieves the output bytes and report JSON stored under key.
// The ok return is false if the entry does not exist.
func (s *Store) Get(ctx context.Context, key string) (outputBytes, reportJSON []byte, ok bool, err error) {
	exists, err := s.provider.Exists(ctx, outputObjectKey(key))
	if err != nil {
		return nil, nil, false, fmt.Errorf("cache: check existence: %w", err)
	}
	if !exists {
		return nil, nil, false, nil
	}

	outReader, err := s.provider.Get(ctx, outputObjectKey(key))
	if err != nil {
		return nil, nil, false, fmt.Errorf("cache: fetch output: %w", err)
	}
	defer outReader.Close()
	outputBytes, err = io.ReadAll(outReader)
	if err != nil {
		return nil, nil, false, fmt.Errorf("cache: read output: %w", err)
	}

	repReader, err := s.provider.Get(ctx, reportObjectKey(key))
	if err != nil {
		return nil, nil, false, fmt.Errorf("cache: fetch report: %w", err)
	}
	defer repReader.Close()
	reportJSON, err = io.ReadAll(repReader)
	if err != nil {
		return nil, nil, false, fmt.Errorf("cache: read report: %w", err)
	}

	return outputBytes, reportJSON, true, nil
}

// Evict removes both objects for key and, if an index is attached,
// its bookkeeping row.
func (s *Store) Evict(ctx context.Context, key string) error {
	if err := s.provider.Delete(ctx, outputObjectKey(key)); err != nil {
		return fmt.Errorf("cache: delete output: %w", err)
	}
	if err := s.provider.Delete(ctx, reportObjectKey(key)); err != nil {
		return fmt.Errorf("cache: delete report: %w", err)
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, key); err != nil {
			return fmt.Errorf("cache: delete index entry: %w", err)
		}
	}
	return nil
}

func outputObjectKey(key string) string { return key + ".bin" }
func reportObjectKey(key string) string { return key + ".report.json" }
