package services

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

// ModelLoader reads a resolved artifact file into a predictor.
type ModelLoader struct {
	decoder ports.PredictorDecoder
}

func NewModelLoader(decoder ports.PredictorDecoder) *ModelLoader {
	return &ModelLoader{decoder: decoder}
}

func (l *ModelLoader) Load(path string) (ports.Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	p, err := l.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return p, nil
}

// Initializer is the service's startup entry point: resolve, then load, then
// hand back a ready scoring service. It is meant to run once per process.
type Initializer struct {
	resolver *ModelResolver
	loader   *ModelLoader
	source   domain.ModelSource
}

func NewInitializer(resolver *ModelResolver, loader *ModelLoader, source domain.ModelSource) *Initializer {
	return &Initializer{resolver: resolver, loader: loader, source: source}
}

func (i *Initializer) Init(ctx context.Context, opts ...ScoringOption) (*ScoringService, error) {
	path, err := i.resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve model: %w", err)
	}
	log.Infof("model path is: %s", path)

	p, err := i.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	info := domain.ModelInfo{
		Name:     p.Name(),
		Type:     p.Type(),
		Features: p.Features(),
		Classes:  p.Classes(),
		Source:   i.source,
		Path:     path,
		LoadedAt: time.Now(),
	}
	log.WithFields(log.Fields{
		"name":     info.Name,
		"type":     info.Type,
		"features": info.Features,
		"classes":  info.Classes,
	}).Info("model loaded")

	return NewScoringService(p, info, opts...), nil
}
