package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"factory-scoring-service/internal/core/domain"
)

const headerRequestID = "X-Request-ID"

// RequestID tags every request with an ID, taken from X-Request-ID when the
// caller supplies one. The ID is also carried on the request context so data
// collection can correlate inputs with predictions.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header(headerRequestID, requestID)
		c.Request = c.Request.WithContext(domain.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}
