package handlers

import (
	"net/http"
	"strconv"

	"model-scoring-service/internal/adapters/primary/http/dto"
	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
	"model-scoring-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) RegisterArtifact(c *gin.Context) {
	t, ok := parseArtifactType(c)
	if !ok {
		return
	}

	var req dto.RegisterArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifact, err := h.artifactSvc.Register(c.Request.Context(), services.RegisterInput{
		Type:       t,
		URL:        req.URL,
		Name:       req.Name,
		CodeURL:    req.CodeURL,
		DatasetURL: req.DatasetURL,
	})
	if err != nil {
		log.WithError(err).WithField("url", req.URL).Error("register artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToArtifactResponse(artifact))
}

func (h *Handler) GetArtifact(c *gin.Context) {
	t, ok := parseArtifactType(c)
	if !ok {
		return
	}
	id, ok := parseArtifactID(c)
	if !ok {
		return
	}

	artifact, err := h.artifactSvc.Get(c.Request.Context(), t, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactResponse(artifact))
}

func (h *Handler) UpdateArtifact(c *gin.Context) {
	t, ok := parseArtifactType(c)
	if !ok {
		return
	}
	id, ok := parseArtifactID(c)
	if !ok {
		return
	}

	var req dto.UpdateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifact, err := h.artifactSvc.Update(c.Request.Context(), t, id, req.Updates())
	if err != nil {
		log.WithError(err).WithField("id", id).Error("update artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactResponse(artifact))
}

func (h *Handler) DeleteArtifact(c *gin.Context) {
	t, ok := parseArtifactType(c)
	if !ok {
		return
	}
	id, ok := parseArtifactID(c)
	if !ok {
		return
	}

	if err := h.artifactSvc.Delete(c.Request.Context(), t, id); err != nil {
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ScanArtifacts(c *gin.Context) {
	var req dto.ScanArtifactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var t domain.ArtifactType
	if req.Type != "" {
		parsed, err := domain.ValidateArtifactType(req.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t = parsed
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	limit = services.PageLimit(limit)
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	artifacts, total, err := h.artifactSvc.List(c.Request.Context(), ports.ArtifactFilter{
		Name:   req.Name,
		Type:   t,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		log.WithError(err).Error("scan artifacts failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		items = append(items, dto.ToArtifactResponse(a))
	}

	c.JSON(http.StatusOK, dto.ListArtifactsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) Reset(c *gin.Context) {
	if err := h.artifactSvc.Reset(c.Request.Context()); err != nil {
		log.WithError(err).Error("reset registry failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
