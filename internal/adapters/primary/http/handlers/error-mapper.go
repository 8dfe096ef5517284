package handlers

import (
	"errors"
	"net/http"

	"factory-scoring-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

// mapDomainError covers the errors that escape the scoring result. Request-local
// scoring failures never reach it; they are rendered as the error descriptor.
func mapDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSchemaNotConfigured):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrPredictorNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
