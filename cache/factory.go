package cache

import (
	"fmt"
	"strings"
)

// NewProvider dispatches to a backend by cfg.Backend, mirroring the
// teacher's storage.NewProvider factory.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Backend) {
	case "s3", "aws":
		return NewS3Provider(cfg)
	case "gcs", "google":
		return NewGCSProvider(cfg)
	case "azure", "azblob":
		return NewAzureProvider(cfg)
	case "redis":
		return NewRedisProvider(cfg)
	case "local", "filesystem", "":
		return NewLocalProvider(cfg)
	default:
		return nil, fmt.Errorf("cache: unsupported backend %q", cfg.Backend)
	}
}
