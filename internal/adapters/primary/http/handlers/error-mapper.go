package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"model-scoring-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	// Not found errors
	case errors.Is(err, domain.ErrArtifactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidArtifactType),
		errors.Is(err, domain.ErrInvalidArtifactID),
		errors.Is(err, domain.ErrMissingArtifactURL),
		errors.Is(err, domain.ErrInvalidModelURL),
		errors.Is(err, domain.ErrInvalidCodeURL),
		errors.Is(err, domain.ErrInvalidDatasetURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrModelEvaluated):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Rating failures
	case errors.Is(err, domain.ErrMetricComputation):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "the artifact rating could not be computed: " + err.Error(),
		})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseArtifactType(c *gin.Context) (domain.ArtifactType, bool) {
	t, err := domain.ValidateArtifactType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return t, true
}

func parseArtifactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidArtifactID.Error()})
		return 0, false
	}
	return id, true
}
