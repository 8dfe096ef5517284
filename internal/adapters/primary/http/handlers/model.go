package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factory-scoring-service/internal/adapters/primary/http/dto"
	"factory-scoring-service/internal/core/domain"
)

func (h *Handler) GetModel(c *gin.Context) {
	info, err := h.scoringSvc.Info()
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelInfoResponse(info, h.scoringSvc.InputKey()))
}

func (h *Handler) GetSchema(c *gin.Context) {
	if len(h.schemaDoc) == 0 {
		mapDomainError(c, domain.ErrSchemaNotConfigured)
		return
	}
	c.Data(http.StatusOK, "application/json", h.schemaDoc)
}
