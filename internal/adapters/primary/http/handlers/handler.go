package handlers

import (
	"model-scoring-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	artifactSvc *services.ArtifactService
}

func New(artifactSvc *services.ArtifactService) *Handler {
	return &Handler{artifactSvc: artifactSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Artifacts
	r.POST("/artifact/:type", h.RegisterArtifact)
	r.GET("/artifacts/:type/:id", h.GetArtifact)
	r.PUT("/artifacts/:type/:id", h.UpdateArtifact)
	r.DELETE("/artifacts/:type/:id", h.DeleteArtifact)
	r.POST("/artifacts", h.ScanArtifacts)

	// Ratings
	r.GET("/artifact/model/:id/rate", h.RateModel)

	r.DELETE("/reset", h.Reset)
}
