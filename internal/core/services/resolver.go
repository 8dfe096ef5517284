package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

type ResolverConfig struct {
	Source    domain.ModelSource
	ModelName string
	LocalPath string
	LocalDir  string
	Container string
	ModelBlob string
	// Account is the storage account the blob store is bound to.
	Account   string
}

// ModelResolver finds a local file holding the model bytes, downloading it
// when the model lives in blob storage.
type ModelResolver struct {
	cfg      ResolverConfig
	blobs    ports.BlobStore
	registry ports.ArtifactRegistry
}

// NewModelResolver creates a resolver. blobs and registry may be nil when the
// configured source does not need them.
func NewModelResolver(cfg ResolverConfig, blobs ports.BlobStore, registry ports.ArtifactRegistry) *ModelResolver {
	return &ModelResolver{cfg: cfg, blobs: blobs, registry: registry}
}

func (r *ModelResolver) Resolve(ctx context.Context) (string, error) {
	switch r.cfg.Source {
	case domain.ModelSourceLocal:
		return r.resolveLocal(r.cfg.LocalPath)
	case domain.ModelSourceRegistry:
		return r.resolveRegistry(ctx)
	case domain.ModelSourceBlob:
		return r.DownloadBlob(ctx, r.cfg.Container, r.cfg.ModelBlob, r.cfg.LocalDir)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidModelSource, r.cfg.Source)
	}
}

func (r *ModelResolver) resolveLocal(path string) (string, error) {
	if path == "" {
		return "", domain.ErrInvalidModelPath
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrModelNotFound, path)
		}
		return "", fmt.Errorf("stat model file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrModelNotFound, path)
	}
	return path, nil
}

func (r *ModelResolver) resolveRegistry(ctx context.Context) (string, error) {
	if r.cfg.ModelName == "" {
		return "", domain.ErrInvalidModelName
	}
	if r.registry == nil {
		return "", domain.ErrRegistryNotConfigured
	}

	artifact, err := r.registry.GetByName(ctx, r.cfg.ModelName)
	if err != nil {
		return "", fmt.Errorf("registry lookup %q: %w", r.cfg.ModelName, err)
	}

	log.WithFields(log.Fields{
		"model":   artifact.Name,
		"version": artifact.Version,
		"uri":     artifact.URI,
	}).Info("model found in registry")

	loc, err := domain.ParseArtifactURI(artifact.URI)
	if err != nil {
		return "", err
	}
	if loc.Kind == domain.LocationFile {
		return r.resolveLocal(loc.Path)
	}
	if loc.Account != "" && !strings.EqualFold(loc.Account, r.cfg.Account) {
		return "", fmt.Errorf("%w: blob account %q differs from configured account %q",
			domain.ErrUnsupportedURI, loc.Account, r.cfg.Account)
	}
	return r.DownloadBlob(ctx, loc.Container, loc.Blob, r.cfg.LocalDir)
}

// DownloadBlob makes sure dir exists, removes any stale local copy of the
// blob and downloads a fresh one. Re-running it leaves exactly one file.
func (r *ModelResolver) DownloadBlob(ctx context.Context, container, blob, dir string) (string, error) {
	if r.blobs == nil {
		return "", domain.ErrStorageNotConfigured
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	localPath := filepath.Join(dir, domain.ArtifactLocation{Kind: domain.LocationBlob, Blob: blob}.LocalName())
	if err := removeStale(localPath); err != nil {
		return "", err
	}

	n, err := r.blobs.Download(ctx, container, blob, localPath)
	if err != nil {
		return "", fmt.Errorf("download %s/%s: %w", container, blob, err)
	}

	log.WithFields(log.Fields{
		"container": container,
		"blob":      blob,
		"path":      localPath,
		"bytes":     n,
	}).Info("model downloaded")

	return localPath, nil
}

// removeStale deletes a previously downloaded copy of path, if any.
func removeStale(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove stale %s: %w", path, err)
	}
	log.WithField("path", path).Info("local file exists and was deleted")
	return nil
}
