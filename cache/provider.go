// Package cache implements the optional caller-side cache
// collaborator promised by spec §6.7. The generation core never
// touches this package directly; it only fixes the key schema
// (spec.CacheKey). A caller (CLI, worker) uses Provider to store and
// retrieve cached output bytes plus their report, keyed by that
// schema.
package cache

import (
	"context"
	"io"
)

// Provider is the storage backend a cache implementation writes
// entries through. Mirrors the teacher's storage.Provider shape.
type Provider interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Config configures a Provider, shared across backends. Fields not
// relevant to a given backend are ignored.
type Config struct {
	Backend   string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
	BaseDir   string
}

// Entry is one cache record: the cached output bytes plus the report
// produced alongside it (spec §6.7: "Cache entries store the output
// bytes and a copy of the report").
type Entry struct {
	Key          string
	OutputBytes  []byte
	ReportJSON   []byte
	RecipeHash   string
	Seed         uint32
	BackendVer   string
	PreviewFlag  bool
}
