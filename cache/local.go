package cache

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider stores cache entries as plain files under a base
// directory, with path traversal and symlink-escape checks (ported
// from the teacher's storage.LocalProvider.securePath).
type LocalProvider struct {
	basePath string
}

// NewLocalProvider creates the base directory if needed and returns a
// Provider rooted at it.
func NewLocalProvider(cfg Config) (*LocalProvider, error) {
	basePath := cfg.BaseDir
	if basePath == "" {
		basePath = "./cache"
	}

	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("cache: resolve base path: %w", err)
	}
	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("cache: create cache directory: %w", err)
	}

	return &LocalProvider{basePath: absBasePath}, nil
}

// securePath validates and returns a safe file path within the base
// directory, refusing any key that would escape it via ".." segments
// or a symlink.
func (l *LocalProvider) securePath(key string) (string, error) {
	cleanKey := filepath.Clean(key)
	filePath := filepath.Join(l.basePath, cleanKey)

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("cache: resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, l.basePath+string(filepath.Separator)) && absPath != l.basePath {
		return "", fmt.Errorf("cache: path traversal detected: access denied")
	}

	if _, err := os.Lstat(absPath); err == nil {
		realPath, err := filepath.EvalSymlinks(absPath)
		if err == nil {
			if !strings.HasPrefix(realPath, l.basePath+string(filepath.Separator)) && realPath != l.basePath {
				return "", fmt.Errorf("cache: symlink escape detected: access denied")
			}
		}
	}

	return absPath, nil
}

func (l *LocalProvider) Put(ctx context.Context, key string, reader io.Reader, size int64) error {
	filePath, err := l.securePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("cache: create directory: %w", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("cache: create file: %w", err)
	}
	defer file.Close()
	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("cache: write file: %w", err)
	}
	return nil
}

func (l *LocalProvider) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	filePath, err := l.securePath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("cache: open file: %w", err)
	}
	return file, nil
}

func (l *LocalProvider) Delete(ctx context.Context, key string) error {
	filePath, err := l.securePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("cache: delete file: %w", err)
	}
	return nil
}

func (l *LocalProvider) Exists(ctx context.Context, key string) (bool, error) {
	filePath, err := l.securePath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("cache: stat file: %w", err)
	}
	return true, nil
}
