package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

// MockBlobStore is a mock of BlobStore.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Download(ctx context.Context, container, blob, destPath string) (int64, error) {
	args := m.Called(ctx, container, blob, destPath)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBlobStore) Upload(ctx context.Context, container, blob, srcPath, contentType string) error {
	args := m.Called(ctx, container, blob, srcPath, contentType)
	return args.Error(0)
}

// MockArtifactRegistry is a mock of ArtifactRegistry.
type MockArtifactRegistry struct {
	mock.Mock
}

func (m *MockArtifactRegistry) GetByName(ctx context.Context, name string) (*domain.ModelArtifact, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelArtifact), args.Error(1)
}

// MockDataCollector is a mock of DataCollector.
type MockDataCollector struct {
	mock.Mock
}

func (m *MockDataCollector) Collect(ctx context.Context, rec *domain.CollectedRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// MockPredictor is a mock of Predictor.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Type() string {
	return m.Called().String(0)
}

func (m *MockPredictor) Name() string {
	return m.Called().String(0)
}

func (m *MockPredictor) Features() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockPredictor) Classes() []int {
	args := m.Called()
	return args.Get(0).([]int)
}

func (m *MockPredictor) Predict(rows [][]float64) ([]int, error) {
	args := m.Called(rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

var (
	_ ports.BlobStore        = (*MockBlobStore)(nil)
	_ ports.ArtifactRegistry = (*MockArtifactRegistry)(nil)
	_ ports.DataCollector    = (*MockDataCollector)(nil)
	_ ports.Predictor        = (*MockPredictor)(nil)
)
