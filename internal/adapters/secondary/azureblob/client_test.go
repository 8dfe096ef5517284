package azureblob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-scoring-service/internal/config"
	"factory-scoring-service/internal/core/domain"
)

type fakeBlobAPI struct {
	content     string
	downloadErr error
	uploaded    string
	contentType string
}

func (f *fakeBlobAPI) DownloadFile(_ context.Context, _, _ string, file *os.File, _ *azblob.DownloadFileOptions) (int64, error) {
	n, _ := file.WriteString(f.content)
	if f.downloadErr != nil {
		return 0, f.downloadErr
	}
	return int64(n), nil
}

func (f *fakeBlobAPI) UploadFile(_ context.Context, _, _ string, file *os.File, o *azblob.UploadFileOptions) (azblob.UploadFileResponse, error) {
	data, err := os.ReadFile(file.Name())
	if err != nil {
		return azblob.UploadFileResponse{}, err
	}
	f.uploaded = string(data)
	if o != nil && o.HTTPHeaders != nil && o.HTTPHeaders.BlobContentType != nil {
		f.contentType = *o.HTTPHeaders.BlobContentType
	}
	return azblob.UploadFileResponse{}, nil
}

func TestBlobStore_Download(t *testing.T) {
	api := &fakeBlobAPI{content: "model-bytes"}
	dest := filepath.Join(t.TempDir(), "factory.model")

	n, err := newBlobStore(api).Download(context.Background(), "readydemo", "factory.model", dest)
	require.NoError(t, err)
	assert.Equal(t, int64(len("model-bytes")), n)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "model-bytes", string(got))
}

func TestBlobStore_DownloadFailureRemovesPartialFile(t *testing.T) {
	api := &fakeBlobAPI{content: "partial", downloadErr: errors.New("connection reset")}
	dest := filepath.Join(t.TempDir(), "factory.model")

	_, err := newBlobStore(api).Download(context.Background(), "readydemo", "factory.model", dest)
	assert.ErrorContains(t, err, "connection reset")

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBlobStore_Upload(t *testing.T) {
	src := filepath.Join(t.TempDir(), "service_schema.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"title":"factory"}`), 0o644))

	api := &fakeBlobAPI{}
	require.NoError(t, newBlobStore(api).Upload(context.Background(), "readydemo", "factory.schema", src, "application/json"))
	assert.Equal(t, `{"title":"factory"}`, api.uploaded)
	assert.Equal(t, "application/json", api.contentType)

	err := newBlobStore(api).Upload(context.Background(), "readydemo", "factory.schema", filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}

func TestNewBlobStore(t *testing.T) {
	_, err := NewBlobStore(config.StorageConfig{})
	assert.ErrorIs(t, err, domain.ErrStorageNotConfigured)

	store, err := NewBlobStore(config.StorageConfig{
		AccountName: "devstoreaccount1",
		AccountKey:  "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==",
		ServiceURL:  "http://127.0.0.1:10000/devstoreaccount1/",
	})
	require.NoError(t, err)
	assert.NotNil(t, store)
}
