package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Score runs one scoring call. Request-local failures are part of a 200
// response body as {"INTERNAL error": "..."}.
func (h *Handler) Score(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read request body"})
		return
	}

	res, err := h.scoringSvc.Score(c.Request.Context(), body)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	if !res.OK() {
		log.WithError(res.Err).WithField("request_id", c.GetString("request_id")).Warn("scoring failed")
	}
	c.Data(http.StatusOK, "application/json", res.JSON())
}
