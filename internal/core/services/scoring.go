package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

const DefaultInputKey = "input_df"

// ScoringService owns the loaded predictor. It is built once at startup and
// shared read-only by every request.
type ScoringService struct {
	predictor ports.Predictor
	info      domain.ModelInfo
	inputKey  string
	validator *RequestValidator
	collector ports.DataCollector
}

type ScoringOption func(*ScoringService)

func WithInputKey(key string) ScoringOption {
	return func(s *ScoringService) {
		if key != "" {
			s.inputKey = key
		}
	}
}

// WithValidator checks every payload against the service schema before scoring.
func WithValidator(v *RequestValidator) ScoringOption {
	return func(s *ScoringService) { s.validator = v }
}

func WithCollector(c ports.DataCollector) ScoringOption {
	return func(s *ScoringService) {
		if c != nil {
			s.collector = c
		}
	}
}

func NewScoringService(predictor ports.Predictor, info domain.ModelInfo, opts ...ScoringOption) *ScoringService {
	s := &ScoringService{
		predictor: predictor,
		info:      info,
		inputKey:  DefaultInputKey,
		collector: ports.NopCollector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ScoringService) Ready() bool {
	return s != nil && s.predictor != nil
}

func (s *ScoringService) Info() (domain.ModelInfo, error) {
	if !s.Ready() {
		return domain.ModelInfo{}, domain.ErrPredictorNotLoaded
	}
	return s.info, nil
}

func (s *ScoringService) InputKey() string {
	return s.inputKey
}

// Score scores one JSON payload. Every request-local failure is reported in
// the result; the returned error is only ErrPredictorNotLoaded.
func (s *ScoringService) Score(ctx context.Context, payload []byte) (*domain.ScoreResult, error) {
	if !s.Ready() {
		return nil, domain.ErrPredictorNotLoaded
	}

	frame, err := s.decode(payload)
	if err != nil {
		return &domain.ScoreResult{Err: err}, nil
	}
	return s.score(ctx, frame), nil
}

// ScoreFrame scores an in-memory frame, skipping JSON decoding and schema validation.
func (s *ScoringService) ScoreFrame(ctx context.Context, frame *domain.Frame) (*domain.ScoreResult, error) {
	if !s.Ready() {
		return nil, domain.ErrPredictorNotLoaded
	}
	if frame.Len() == 0 {
		return &domain.ScoreResult{Err: domain.ErrEmptyInput}, nil
	}
	if err := frame.Validate(); err != nil {
		return &domain.ScoreResult{Err: err}, nil
	}
	return s.score(ctx, frame), nil
}

func (s *ScoringService) decode(payload []byte) (*domain.Frame, error) {
	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	if s.validator != nil {
		if err := s.validator.Validate(doc); err != nil {
			return nil, err
		}
	}

	records, err := s.extractRecords(doc)
	if err != nil {
		return nil, err
	}
	return domain.FrameFromRecords(records)
}

// extractRecords accepts {"<key>": [records]}, {"<key>": record} or a bare
// list of records.
func (s *ScoringService) extractRecords(doc interface{}) ([]map[string]interface{}, error) {
	input := doc
	if obj, ok := doc.(map[string]interface{}); ok {
		v, found := obj[s.inputKey]
		if !found {
			return nil, fmt.Errorf("%w: %q", domain.ErrMissingInput, s.inputKey)
		}
		input = v
	}

	switch v := input.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{v}, nil
	case []interface{}:
		records := make([]map[string]interface{}, 0, len(v))
		for i, item := range v {
			rec, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: record %d is not an object", domain.ErrInvalidPayload, i)
			}
			records = append(records, rec)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: %q must be a record or a list of records", domain.ErrInvalidPayload, s.inputKey)
	}
}

func (s *ScoringService) score(ctx context.Context, frame *domain.Frame) *domain.ScoreResult {
	rows, err := frame.Project(s.predictor.Features())
	if err != nil {
		return &domain.ScoreResult{Err: err}
	}

	s.collect(ctx, domain.CollectInputs, frame.Records())

	pred, err := s.predict(rows)
	if err != nil {
		return &domain.ScoreResult{Err: err}
	}

	s.collect(ctx, domain.CollectPrediction, pred)
	return &domain.ScoreResult{Prediction: pred}
}

// predict turns a predictor panic into a request-local error.
func (s *ScoringService) predict(rows [][]float64) (pred []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pred = nil
			err = fmt.Errorf("%w: %v", domain.ErrPredictionFailed, r)
		}
	}()

	pred, err = s.predictor.Predict(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPredictionFailed, err)
	}
	return pred, nil
}

func (s *ScoringService) collect(ctx context.Context, identifier string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Warn("marshal collected payload")
		return
	}
	rec := &domain.CollectedRecord{
		Identifier:  identifier,
		RequestID:   domain.RequestIDFrom(ctx),
		ModelName:   s.info.Name,
		Payload:     raw,
		CollectedAt: time.Now().UTC(),
	}
	if err := s.collector.Collect(ctx, rec); err != nil {
		log.WithError(err).WithField("identifier", identifier).Warn("data collection failed")
	}
}
