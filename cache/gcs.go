package cache

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSProvider stores cache entries in a Google Cloud Storage bucket.
type GCSProvider struct {
	client *storage.Client
	bucket string
}

// NewGCSProvider builds a GCSProvider. When cfg.AccessKey holds raw
// service-account JSON it is used directly; otherwise the client
// falls back to ambient application-default credentials.
func NewGCSProvider(cfg Config) (*GCSProvider, error) {
	var client *storage.Client
	var err error

	if cfg.AccessKey != "" {
		client, err = storage.NewClient(context.Background(), option.WithCredentialsJSON([]byte(cfg.AccessKey)))
	} else {
		client, err = storage.NewClient(context.Background())
	}
	if err != nil {
		return nil, fmt.Errorf("cache: create GCS client: %w", err)
	}

	return &GCSProvider{client: client, bucket: cfg.Bucket}, nil
}

func (g *GCSProvider) Put(ctx context.Context, key string, reader io.Reader, size int64) error {
	obj := g.client.Bucket(g.bucket).Object(key)
	writer := obj.NewWriter(ctx)
	defer writer.Close()
	if _, err := io.Copy(writer, reader); err != nil {
		return fmt.Errorf("cache: put to GCS: %w", err)
	}
	return nil
}

func (g *GCSProvider) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj := g.client.Bucket(g.bucket).Object(key)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("cache: get from GCS: %w", err)
	}
	return reader, nil
}

func (g *GCSProvider) Delete(ctx context.Context, key string) error {
	obj := g.client.Bucket(g.bucket).Object(key)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("cache: delete from GCS: %w", err)
	}
	return nil
}

func (g *GCSProvider) Exists(ctx context.Context, key string) (bool, error) {
	obj := g.client.Bucket(g.bucket).Object(key)
	_, err := obj.Attrs(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return false, nil
		}
		return false, fmt.Errorf("cache: stat GCS object: %w", err)
	}
	return true, nil
}
