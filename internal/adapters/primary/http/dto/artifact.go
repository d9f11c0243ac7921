package dto

import (
	"time"

	"model-scoring-service/internal/core/domain"
)

// ============================================================================
// Artifact DTOs
// ============================================================================

type RegisterArtifactRequest struct {
	URL        string `json:"url" binding:"required"`
	Name       string `json:"name" binding:"max=200"`
	CodeURL    string `json:"code_url"`
	DatasetURL string `json:"dataset_url"`
}

type UpdateArtifactRequest struct {
	Name       *string `json:"name"`
	URL        *string `json:"url"`
	CodeURL    *string `json:"code_url"`
	DatasetURL *string `json:"dataset_url"`
}

// Updates returns the fields set in the request, keyed by column name.
func (r *UpdateArtifactRequest) Updates() map[string]interface{} {
	updates := make(map[string]interface{})
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.URL != nil {
		updates["url"] = *r.URL
	}
	if r.CodeURL != nil {
		updates["code_url"] = *r.CodeURL
	}
	if r.DatasetURL != nil {
		updates["dataset_url"] = *r.DatasetURL
	}
	return updates
}

// ScanArtifactsRequest queries artifacts by name. "*" matches every name.
type ScanArtifactsRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}

type ArtifactResponse struct {
	ID         int64               `json:"id"`
	Type       string              `json:"type"`
	Name       string              `json:"name"`
	URL        string              `json:"url"`
	CodeURL    string              `json:"code_url,omitempty"`
	DatasetURL string              `json:"dataset_url,omitempty"`
	Rating     *domain.ScoreRecord `json:"rating,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type ListArtifactsResponse struct {
	Items      []ArtifactResponse `json:"items"`
	Total      int                `json:"total"`
	PageSize   int                `json:"page_size"`
	NextOffset int                `json:"next_offset"`
}

func ToArtifactResponse(a *domain.Artifact) ArtifactResponse {
	return ArtifactResponse{
		ID:         a.ID,
		Type:       string(a.Type),
		Name:       a.Name,
		URL:        a.URL,
		CodeURL:    a.CodeURL,
		DatasetURL: a.DatasetURL,
		Rating:     a.Rating,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
