package domain

import (
	"context"
	"encoding/json"
	"time"
)

const (
	CollectInputs     = "inputs"
	CollectPrediction = "prediction"
)

// CollectedRecord is one input or prediction handed to a data collector.
type CollectedRecord struct {
	Identifier  string          `json:"identifier"`
	RequestID   string          `json:"request_id"`
	ModelName   string          `json:"model_name"`
	Payload     json.RawMessage `json:"payload"`
	CollectedAt time.Time       `json:"collected_at"`
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
