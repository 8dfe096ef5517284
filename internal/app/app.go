// Package app wires configuration into the adapters and core services shared
// by the server and the scorectl command.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/adapters/secondary/azureblob"
	"factory-scoring-service/internal/adapters/secondary/collector"
	"factory-scoring-service/internal/adapters/secondary/postgres"
	"factory-scoring-service/internal/adapters/secondary/registryapi"
	"factory-scoring-service/internal/adapters/secondary/sqlite"
	"factory-scoring-service/internal/config"
	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
	"factory-scoring-service/internal/core/services"
	"factory-scoring-service/internal/predictor"
)

// Runtime holds the ready scoring service and everything that must be
// released on shutdown.
type Runtime struct {
	Scoring   *services.ScoringService
	SchemaDoc []byte
	closers   []func()
}

func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// Bootstrap resolves and loads the configured model. Any error is fatal for
// the caller; the service must not start without a predictor.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{}

	source, err := domain.ParseModelSource(cfg.Model.Source)
	if err != nil {
		return nil, err
	}

	blobs, err := BlobStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	var registry ports.ArtifactRegistry
	if source == domain.ModelSourceRegistry {
		var closeRegistry func()
		registry, closeRegistry, err = Registry(ctx, cfg)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, closeRegistry)
	}

	dataCollector, closeCollector, err := Collector(cfg.Collector)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, closeCollector)

	opts := []services.ScoringOption{
		services.WithInputKey(cfg.Model.InputKey),
		services.WithCollector(dataCollector),
	}
	if cfg.Model.SchemaPath != "" {
		validator, doc, err := LoadValidator(cfg.Model.SchemaPath)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.SchemaDoc = doc
		opts = append(opts, services.WithValidator(validator))
	}

	resolver := services.NewModelResolver(ResolverConfig(cfg, source), blobs, registry)
	initializer := services.NewInitializer(resolver, services.NewModelLoader(predictor.NewDecoder()), source)

	rt.Scoring, err = initializer.Init(ctx, opts...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func ResolverConfig(cfg *config.Config, source domain.ModelSource) services.ResolverConfig {
	return services.ResolverConfig{
		Source:    source,
		ModelName: cfg.Model.Name,
		LocalPath: cfg.Model.LocalPath,
		LocalDir:  cfg.Model.LocalDir,
		Container: cfg.Storage.Container,
		ModelBlob: cfg.Storage.ModelBlob,
		Account:   cfg.Storage.AccountName,
	}
}

// BlobStore returns nil without error when no storage account is configured.
func BlobStore(cfg config.StorageConfig) (ports.BlobStore, error) {
	if !cfg.Configured() {
		log.Info("blob storage not configured")
		return nil, nil
	}
	return azureblob.NewBlobStore(cfg)
}

// Registry connects to the model registry selected by REGISTRY_KIND.
func Registry(ctx context.Context, cfg *config.Config) (ports.ArtifactRegistry, func(), error) {
	switch strings.ToLower(cfg.Registry.Kind) {
	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("parse db config: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("create db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping db: %w", err)
		}
		log.Info("registry database connection established")
		return postgres.NewArtifactRegistry(pool, cfg.Registry.ProjectID), pool.Close, nil
	case "http":
		log.WithField("url", cfg.Registry.URL).Info("using registry api")
		return registryapi.NewClient(cfg.Registry.URL, cfg.Registry.ProjectID, cfg.Registry.Timeout), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: registry kind %q", domain.ErrRegistryNotConfigured, cfg.Registry.Kind)
	}
}

// Collector builds the data collector selected by COLLECTOR_KIND.
func Collector(cfg config.CollectorConfig) (ports.DataCollector, func(), error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "none":
		return ports.NopCollector(), func() {}, nil
	case "log":
		return collector.NewLogCollector(log.StandardLogger()), func() {}, nil
	case "sqlite":
		c, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("path", cfg.Path).Info("collecting scoring data to sqlite")
		return c, func() {
			if err := c.Close(); err != nil {
				log.WithError(err).Warn("close collector")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown collector kind %q", cfg.Kind)
	}
}

// LoadValidator reads a service schema document and compiles it.
func LoadValidator(path string) (*services.RequestValidator, []byte, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrSchemaNotConfigured, path)
		}
		return nil, nil, fmt.Errorf("read schema: %w", err)
	}
	v, err := services.NewRequestValidator(doc)
	if err != nil {
		return nil, nil, err
	}
	return v, doc, nil
}
