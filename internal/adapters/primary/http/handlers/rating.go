package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RateModel returns the score record of a model artifact.
func (h *Handler) RateModel(c *gin.Context) {
	id, ok := parseArtifactID(c)
	if !ok {
		return
	}

	record, err := h.artifactSvc.Rate(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).WithField("id", id).Error("rate model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}
