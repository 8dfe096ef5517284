package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ModelSource string

const (
	ModelSourceLocal    ModelSource = "local"
	ModelSourceRegistry ModelSource = "registry"
	ModelSourceBlob     ModelSource = "blob"
)

func ParseModelSource(s string) (ModelSource, error) {
	switch src := ModelSource(strings.ToLower(strings.TrimSpace(s))); src {
	case ModelSourceLocal, ModelSourceRegistry, ModelSourceBlob:
		return src, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidModelSource, s)
	}
}

// ModelArtifact is a published model as recorded by a model registry.
type ModelArtifact struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	URI       string    `json:"uri"`
	Framework string    `json:"model_framework"`
	CreatedAt time.Time `json:"created_at"`
}

// ModelInfo describes the predictor currently held by the scoring service.
type ModelInfo struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Features []string    `json:"features"`
	Classes  []int       `json:"classes"`
	Source   ModelSource `json:"source"`
	Path     string      `json:"path"`
	LoadedAt time.Time   `json:"loaded_at"`
}

type LocationKind string

const (
	LocationFile LocationKind = "file"
	LocationBlob LocationKind = "blob"
)

// ArtifactLocation is a parsed artifact URI.
type ArtifactLocation struct {
	Kind      LocationKind
	Path      string
	Account   string
	Container string
	Blob      string
}

const blobHostSuffix = ".blob.core.windows.net"

// ParseArtifactURI understands plain paths, file:// URIs, azblob://container/blob
// and https://<account>.blob.core.windows.net/container/blob.
func ParseArtifactURI(raw string) (ArtifactLocation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ArtifactLocation{}, fmt.Errorf("%w: empty uri", ErrUnsupportedURI)
	}
	if !strings.Contains(raw, "://") {
		return ArtifactLocation{Kind: LocationFile, Path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ArtifactLocation{}, fmt.Errorf("%w: %v", ErrUnsupportedURI, err)
	}

	switch u.Scheme {
	case "file":
		return ArtifactLocation{Kind: LocationFile, Path: u.Path}, nil
	case "azblob":
		blob := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || blob == "" {
			return ArtifactLocation{}, fmt.Errorf("%w: %s", ErrUnsupportedURI, raw)
		}
		return ArtifactLocation{Kind: LocationBlob, Container: u.Host, Blob: blob}, nil
	case "https":
		if !strings.HasSuffix(u.Host, blobHostSuffix) {
			return ArtifactLocation{}, fmt.Errorf("%w: %s", ErrUnsupportedURI, raw)
		}
		parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return ArtifactLocation{}, fmt.Errorf("%w: %s", ErrUnsupportedURI, raw)
		}
		return ArtifactLocation{
			Kind:      LocationBlob,
			Account:   strings.TrimSuffix(u.Host, blobHostSuffix),
			Container: parts[0],
			Blob:      parts[1],
		}, nil
	default:
		return ArtifactLocation{}, fmt.Errorf("%w: scheme %q", ErrUnsupportedURI, u.Scheme)
	}
}

// LocalName is the file name a blob is stored under once downloaded.
func (l ArtifactLocation) LocalName() string {
	if l.Kind == LocationFile {
		return path.Base(l.Path)
	}
	return path.Base(l.Blob)
}
