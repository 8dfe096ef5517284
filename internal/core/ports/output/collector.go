package ports

import (
	"context"

	"factory-scoring-service/internal/core/domain"
)

// DataCollector receives scoring inputs and predictions for later analysis.
// Implementations must be safe for concurrent use.
type DataCollector interface {
	Collect(ctx context.Context, rec *domain.CollectedRecord) error
}

type nopCollector struct{}

// NopCollector discards everything.
func NopCollector() DataCollector {
	return nopCollector{}
}

func (nopCollector) Collect(context.Context, *domain.CollectedRecord) error {
	return nil
}
