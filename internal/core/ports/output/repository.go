package ports

import (
	"context"

	"factory-scoring-service/internal/core/domain"
)

// ArtifactRegistry looks published model artifacts up by name.
type ArtifactRegistry interface {
	GetByName(ctx context.Context, name string) (*domain.ModelArtifact, error)
}
