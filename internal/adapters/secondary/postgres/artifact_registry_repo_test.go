package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-scoring-service/internal/core/domain"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *string:
			*p = r.values[i].(string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

type fakeQuerier struct {
	row  fakeRow
	args []any
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.args = args
	return q.row
}

func TestArtifactRegistry_GetByName(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	q := &fakeQuerier{row: fakeRow{values: []any{
		id, "factorymodel", "v3", "azblob://readydemo/factory.model", "decision_tree", created,
	}}}

	a, err := NewArtifactRegistry(q, "proj-1").GetByName(context.Background(), "factorymodel")
	require.NoError(t, err)
	assert.Equal(t, &domain.ModelArtifact{
		ID:        id,
		Name:      "factorymodel",
		Version:   "v3",
		URI:       "azblob://readydemo/factory.model",
		Framework: "decision_tree",
		CreatedAt: created,
	}, a)
	assert.Equal(t, []any{"factorymodel", "proj-1"}, q.args)
}

func TestArtifactRegistry_Errors(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}
	_, err := NewArtifactRegistry(q, "").GetByName(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)

	q = &fakeQuerier{row: fakeRow{err: errors.New("connection reset")}}
	_, err = NewArtifactRegistry(q, "").GetByName(context.Background(), "m")
	assert.ErrorContains(t, err, "connection reset")

	q = &fakeQuerier{row: fakeRow{values: []any{uuid.New(), "m", "v1", "", "", time.Now()}}}
	_, err = NewArtifactRegistry(q, "").GetByName(context.Background(), "m")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}
