package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureProvider stores cache entries in an Azure Blob Storage
// container.
type AzureProvider struct {
	client    *azblob.Client
	container string
}

// NewAzureProvider builds an AzureProvider from a storage account
// shared key.
func NewAzureProvider(cfg Config) (*AzureProvider, error) {
	credential, err := azblob.NewSharedKeyCredential(cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("cache: create Azure credentials: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccessKey)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: create Azure blob client: %w", err)
	}

	return &AzureProvider{client: client, container: cfg.Bucket}, nil
}

func (a *AzureProvider) Put(ctx context.Context, key string, reader io.Reader, size int64) error {
	_, err := a.client.UploadStream(ctx, a.container, key, reader, nil)
	if err != nil {
		return fmt.Errorf("cache: upload to Azure: %w", err)
	}
	return nil
}

func (a *AzureProvider) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	response, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: download from Azure: %w", err)
	}
	return response.Body, nil
}

func (a *AzureProvider) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteBlob(ctx, a.container, key, nil)
	if err != nil {
		return fmt.Errorf("cache: delete from Azure: %w", err)
	}
	return nil
}

func (a *AzureProvider) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.NewBlobClient(a.container, key).GetProperties(ctx, nil)
	if err != nil {
		var respErr *azblob.StorageError
		if errors.As(err, &respErr) && respErr.ErrorCode == azblob.StorageErrorCodeBlobNotFound {
			return false, nil
		}
		return false, fmt.Errorf("cache: stat Azure blob: %w", err)
	}
	return true, nil
}
