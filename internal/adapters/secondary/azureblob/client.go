package azureblob

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/config"
	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

// blobAPI is the subset of *azblob.Client the store uses.
type blobAPI interface {
	DownloadFile(ctx context.Context, containerName, blobName string, file *os.File, o *azblob.DownloadFileOptions) (int64, error)
	UploadFile(ctx context.Context, containerName, blobName string, file *os.File, o *azblob.UploadFileOptions) (azblob.UploadFileResponse, error)
}

type blobStore struct {
	client blobAPI
}

// NewBlobStore authenticates with the storage account's shared key.
func NewBlobStore(cfg config.StorageConfig) (ports.BlobStore, error) {
	if !cfg.Configured() {
		return nil, domain.ErrStorageNotConfigured
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}

	serviceURL := cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccountName)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}

	log.WithFields(log.Fields{
		"account": cfg.AccountName,
		"url":     serviceURL,
	}).Info("blob storage configured")

	return &blobStore{client: client}, nil
}

func newBlobStore(client blobAPI) *blobStore {
	return &blobStore{client: client}
}

// Download writes the blob to destPath. A partially written file is removed
// when the download fails.
func (s *blobStore) Download(ctx context.Context, container, blobName, destPath string) (int64, error) {
	f, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", destPath, err)
	}

	n, err := s.client.DownloadFile(ctx, container, blobName, f, nil)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(destPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.WithError(rmErr).WithField("path", destPath).Warn("remove partial download")
		}
		return 0, mapStorageError(err, container, blobName)
	}
	return n, nil
}

func (s *blobStore) Upload(ctx context.Context, container, blobName, srcPath, contentType string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close()

	opts := &azblob.UploadFileOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}
	if _, err := s.client.UploadFile(ctx, container, blobName, f, opts); err != nil {
		return mapStorageError(err, container, blobName)
	}
	return nil
}

func mapStorageError(err error, container, blobName string) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound, bloberror.ResourceNotFound) {
		return fmt.Errorf("%w: %s/%s", domain.ErrModelNotFound, container, blobName)
	}
	return fmt.Errorf("blob %s/%s: %w", container, blobName, err)
}
