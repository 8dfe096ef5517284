package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

type PackageConfig struct {
	Dir        string
	Container  string
	ModelBlob  string
	SchemaBlob string
	// ScoreFile and ConfigFile are copied into the package when set.
	ScoreFile  string
	ConfigFile string
}

// DeployPackage lists the files a deployment needs, all inside Dir.
type DeployPackage struct {
	Dir        string
	ModelFile  string
	SchemaFile string
	ScoreFile  string
	ConfigFile string
}

// PackageService assembles a local deployment package from blob storage.
type PackageService struct {
	cfg   PackageConfig
	blobs ports.BlobStore
}

func NewPackageService(cfg PackageConfig, blobs ports.BlobStore) *PackageService {
	return &PackageService{cfg: cfg, blobs: blobs}
}

// Build creates the package directory, deletes stale copies of every file it
// is about to write, downloads the model and schema and copies the config.
func (s *PackageService) Build(ctx context.Context) (*DeployPackage, error) {
	if s.blobs == nil {
		return nil, domain.ErrStorageNotConfigured
	}

	if _, err := os.Stat(s.cfg.Dir); err == nil {
		log.WithField("dir", s.cfg.Dir).Info("local directory already exists")
	} else {
		if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create package directory: %w", err)
		}
		log.WithField("dir", s.cfg.Dir).Info("created local directory")
	}

	pkg := &DeployPackage{
		Dir:        s.cfg.Dir,
		ModelFile:  filepath.Join(s.cfg.Dir, filepath.Base(s.cfg.ModelBlob)),
		SchemaFile: filepath.Join(s.cfg.Dir, filepath.Base(s.cfg.SchemaBlob)),
	}
	if s.cfg.ScoreFile != "" {
		pkg.ScoreFile = filepath.Join(s.cfg.Dir, filepath.Base(s.cfg.ScoreFile))
	}
	if s.cfg.ConfigFile != "" {
		pkg.ConfigFile = filepath.Join(s.cfg.Dir, filepath.Base(s.cfg.ConfigFile))
	}

	for _, path := range []string{pkg.ModelFile, pkg.SchemaFile, pkg.ScoreFile, pkg.ConfigFile} {
		if path == "" {
			continue
		}
		if err := removeStale(path); err != nil {
			return nil, err
		}
	}

	if _, err := s.blobs.Download(ctx, s.cfg.Container, s.cfg.ModelBlob, pkg.ModelFile); err != nil {
		return nil, fmt.Errorf("download model: %w", err)
	}
	if _, err := s.blobs.Download(ctx, s.cfg.Container, s.cfg.SchemaBlob, pkg.SchemaFile); err != nil {
		return nil, fmt.Errorf("download schema: %w", err)
	}

	if pkg.ScoreFile != "" {
		if err := copyFile(s.cfg.ScoreFile, pkg.ScoreFile); err != nil {
			return nil, fmt.Errorf("copy score file: %w", err)
		}
	}
	if pkg.ConfigFile != "" {
		if err := copyFile(s.cfg.ConfigFile, pkg.ConfigFile); err != nil {
			return nil, fmt.Errorf("copy config: %w", err)
		}
	}

	return pkg, nil
}

// DeployCommand renders the model-management CLI call for the package. It is
// printed for an operator, never executed.
func DeployCommand(pkg *DeployPackage, serviceName, runtime string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "az ml service create realtime --model-file %s", pkg.ModelFile)
	if pkg.ScoreFile != "" {
		fmt.Fprintf(&b, " -f %s", pkg.ScoreFile)
	}
	fmt.Fprintf(&b, " -n %s -s %s -r %s", serviceName, pkg.SchemaFile, runtime)
	if pkg.ConfigFile != "" {
		fmt.Fprintf(&b, " -c %s", pkg.ConfigFile)
	}
	return b.String()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
