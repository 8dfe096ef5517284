package registryapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

const artifactPath = "/api/v1/model-registry/model_artifact"

type Client struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
}

// NewClient creates a model registry client that looks artifacts up over the
// registry's REST API.
func NewClient(baseURL, projectID string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		projectID: projectID,
	}
}

var _ ports.ArtifactRegistry = (*Client)(nil)

type artifactResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Version        string    `json:"version"`
	URI            string    `json:"uri"`
	ModelFramework string    `json:"model_framework"`
	CreatedAt      time.Time `json:"created_at"`
}

func (c *Client) GetByName(ctx context.Context, name string) (*domain.ModelArtifact, error) {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, artifactPath, url.Values{"name": {name}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.projectID != "" {
		req.Header.Set("Project-ID", c.projectID)
	}

	log.WithFields(log.Fields{
		"url":  u,
		"name": name,
	}).Debug("looking up model artifact")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", domain.ErrModelNotFound, name)
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("registry returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out artifactResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}
	if out.URI == "" {
		return nil, fmt.Errorf("%w: artifact %q has no uri", domain.ErrModelNotFound, name)
	}

	artifact := &domain.ModelArtifact{
		Name:      out.Name,
		Version:   out.Version,
		URI:       out.URI,
		Framework: out.ModelFramework,
		CreatedAt: out.CreatedAt,
	}
	if id, err := uuid.Parse(out.ID); err == nil {
		artifact.ID = id
	}
	if artifact.Name == "" {
		artifact.Name = name
	}
	return artifact, nil
}
