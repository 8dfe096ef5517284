package ports

import "context"

// BlobStore is the remote object storage holding model and schema artifacts.
type BlobStore interface {
	// Download writes the blob to destPath, creating or truncating it, and
	// returns the number of bytes written.
	Download(ctx context.Context, container, blob, destPath string) (int64, error)
	Upload(ctx context.Context, container, blob, srcPath, contentType string) error
}
