package collector

import (
	"context"

	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

type logCollector struct {
	logger log.FieldLogger
}

// NewLogCollector writes every collected record to the service log at debug level.
func NewLogCollector(logger log.FieldLogger) ports.DataCollector {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &logCollector{logger: logger}
}

func (c *logCollector) Collect(_ context.Context, rec *domain.CollectedRecord) error {
	c.logger.WithFields(log.Fields{
		"identifier": rec.Identifier,
		"request_id": rec.RequestID,
		"model":      rec.ModelName,
		"payload":    string(rec.Payload),
	}).Debug("data collected")
	return nil
}
