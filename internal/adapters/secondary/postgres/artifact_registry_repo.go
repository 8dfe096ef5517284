package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

// rowQuerier is the part of *pgxpool.Pool the registry reads through.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type artifactRegistryRepo struct {
	db        rowQuerier
	projectID string
}

// NewArtifactRegistry reads published model versions straight from the model
// registry database. projectID narrows the lookup when set.
func NewArtifactRegistry(db rowQuerier, projectID string) ports.ArtifactRegistry {
	return &artifactRegistryRepo{db: db, projectID: projectID}
}

// GetByName returns the default live version of the registered model, falling
// back to the most recently created live version.
func (r *artifactRegistryRepo) GetByName(ctx context.Context, name string) (*domain.ModelArtifact, error) {
	query := `
		SELECT mv.id, rm.name, mv.name, COALESCE(mv.uri, ''),
			   COALESCE(mv.model_framework, ''), mv.created_at
		FROM model_version mv
		JOIN registered_model rm ON rm.id = mv.registered_model_id
		WHERE rm.name = $1
			AND ($2::text = '' OR rm.project_id::text = $2::text)
			AND mv.state = 'LIVE'
		ORDER BY mv.is_default DESC, mv.created_at DESC
		LIMIT 1
	`

	var a domain.ModelArtifact
	err := r.db.QueryRow(ctx, query, name, r.projectID).Scan(
		&a.ID, &a.Name, &a.Version, &a.URI, &a.Framework, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", domain.ErrModelNotFound, name)
		}
		return nil, fmt.Errorf("get model artifact by name: %w", err)
	}
	if a.URI == "" {
		return nil, fmt.Errorf("%w: version %s of %q has no uri", domain.ErrModelNotFound, a.Version, name)
	}
	return &a, nil
}
