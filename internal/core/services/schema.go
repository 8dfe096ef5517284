package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

const (
	schemaContentType = "application/json"
	schemaResourceURL = "service_schema.json"
)

// RequestValidator checks decoded request payloads against a service schema.
type RequestValidator struct {
	schema *jsonschema.Schema
}

func NewRequestValidator(doc []byte) (*RequestValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResourceURL, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSchema, err)
	}
	schema, err := compiler.Compile(schemaResourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSchema, err)
	}
	return &RequestValidator{schema: schema}, nil
}

func (v *RequestValidator) Validate(doc interface{}) error {
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaValidation, err)
	}
	return nil
}

type SchemaConfig struct {
	Title     string
	Container string
	Blob      string
}

// SchemaService generates the service schema document and publishes it.
type SchemaService struct {
	cfg   SchemaConfig
	blobs ports.BlobStore
}

func NewSchemaService(cfg SchemaConfig, blobs ports.BlobStore) *SchemaService {
	if cfg.Title == "" {
		cfg.Title = "scoring service"
	}
	return &SchemaService{cfg: cfg, blobs: blobs}
}

// Generate builds a draft-07 schema for the scoring input. Required
// properties come from the predictor's features, the example from sample,
// and the output example from scoring sample with scorer.
func (s *SchemaService) Generate(ctx context.Context, scorer *ScoringService, sample *domain.Frame) ([]byte, error) {
	info, err := scorer.Info()
	if err != nil {
		return nil, err
	}

	res, err := scorer.ScoreFrame(ctx, sample)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("score sample: %w", res.Err)
	}

	properties := make(map[string]interface{}, len(info.Features))
	for _, f := range info.Features {
		properties[f] = map[string]interface{}{"type": "number"}
	}
	record := map[string]interface{}{
		"type":       "object",
		"required":   info.Features,
		"properties": properties,
	}

	key := scorer.InputKey()
	doc := map[string]interface{}{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       s.cfg.Title,
		"description": fmt.Sprintf("input schema for %s (%s)", info.Name, info.Type),
		"type":        "object",
		"required":    []string{key},
		"definitions": map[string]interface{}{"record": record},
		"properties": map[string]interface{}{
			key: map[string]interface{}{
				"oneOf": []interface{}{
					map[string]interface{}{"$ref": "#/definitions/record"},
					map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items":    map[string]interface{}{"$ref": "#/definitions/record"},
					},
				},
			},
		},
		"examples": []interface{}{
			map[string]interface{}{key: sample.Records()},
		},
		"output": map[string]interface{}{
			"type":    "string",
			"example": res.String(),
		},
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return out, nil
}

func (s *SchemaService) WriteFile(doc []byte, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	log.WithField("path", path).Info("schema generated")
	return nil
}

// Upload publishes the schema file to the configured schema blob.
func (s *SchemaService) Upload(ctx context.Context, path string) error {
	if s.blobs == nil {
		return domain.ErrStorageNotConfigured
	}
	if err := s.blobs.Upload(ctx, s.cfg.Container, s.cfg.Blob, path, schemaContentType); err != nil {
		return fmt.Errorf("upload schema: %w", err)
	}
	log.WithFields(log.Fields{
		"container": s.cfg.Container,
		"blob":      s.cfg.Blob,
	}).Info("schema uploaded")
	return nil
}
