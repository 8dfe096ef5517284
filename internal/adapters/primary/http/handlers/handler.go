package handlers

import (
	"factory-scoring-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	scoringSvc *services.ScoringService
	schemaDoc  []byte
}

// New creates the scoring handlers. schemaDoc is served as-is from GET
// /schema and may be nil.
func New(scoringSvc *services.ScoringService, schemaDoc []byte) *Handler {
	return &Handler{
		scoringSvc: scoringSvc,
		schemaDoc:  schemaDoc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/score", h.Score)
	r.GET("/schema", h.GetSchema)
	r.GET("/model", h.GetModel)
}
