package domain

import "errors"

// ============================================================================
// Startup Errors
// ============================================================================

// Resolution errors
var (
	ErrModelNotFound         = errors.New("model artifact not found")
	ErrInvalidModelSource    = errors.New("model source must be one of local, registry, blob")
	ErrInvalidModelName      = errors.New("model name is required")
	ErrInvalidModelPath      = errors.New("local model path is required")
	ErrUnsupportedURI        = errors.New("unsupported artifact uri")
	ErrStorageNotConfigured  = errors.New("blob storage is not configured")
	ErrRegistryNotConfigured = errors.New("model registry is not configured")
)

// Load errors
var (
	ErrUnsupportedModelType = errors.New("unsupported model type")
	ErrInvalidArtifact      = errors.New("invalid model artifact")
)

// ============================================================================
// Scoring Errors
// ============================================================================

// ErrPredictorNotLoaded is returned when scoring is attempted before the
// model has been initialized. It is never folded into a request-local result.
var ErrPredictorNotLoaded = errors.New("predictor is not loaded")

// Request-local errors
var (
	ErrInvalidPayload      = errors.New("invalid request payload")
	ErrMissingInput        = errors.New("missing input")
	ErrEmptyInput          = errors.New("no input records")
	ErrMissingFeature      = errors.New("missing feature")
	ErrInvalidFeatureValue = errors.New("invalid feature value")
	ErrSchemaValidation    = errors.New("request does not match service schema")
	ErrPredictionFailed    = errors.New("prediction failed")
)

// ============================================================================
// Schema Errors
// ============================================================================

var (
	ErrSchemaNotConfigured = errors.New("service schema is not configured")
	ErrInvalidSchema       = errors.New("invalid service schema")
)
