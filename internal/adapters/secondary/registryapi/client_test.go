package registryapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-scoring-service/internal/core/domain"
)

func TestClient_GetByName(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/model-registry/model_artifact", r.URL.Path)
		assert.Equal(t, "factory model", r.URL.Query().Get("name"))
		assert.Equal(t, "proj-1", r.Header.Get("Project-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + id.String() + `","name":"factory model","version":"v2",` +
			`"uri":"azblob://readydemo/factory.model","model_framework":"decision_tree","created_at":"2024-03-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	a, err := NewClient(srv.URL+"/", "proj-1", time.Second).GetByName(context.Background(), "factory model")
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, "v2", a.Version)
	assert.Equal(t, "azblob://readydemo/factory.model", a.URI)
	assert.Equal(t, "decision_tree", a.Framework)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), a.CreatedAt)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: domain.ErrModelNotFound},
		{name: "no uri", status: http.StatusOK, body: `{"name":"m"}`, wantErr: domain.ErrModelNotFound},
		{name: "server error", status: http.StatusBadGateway, body: "upstream down", wantMsg: "registry returned 502: upstream down"},
		{name: "bad json", status: http.StatusOK, body: "{", wantMsg: "decode registry response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "", time.Second).GetByName(context.Background(), "m")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
