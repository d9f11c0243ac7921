package domain

import "time"

type ArtifactType string

const (
	ArtifactTypeModel   ArtifactType = "model"
	ArtifactTypeDataset ArtifactType = "dataset"
	ArtifactTypeCode    ArtifactType = "code"
)

func ValidateArtifactType(t string) (ArtifactType, error) {
	switch ArtifactType(t) {
	case ArtifactTypeModel, ArtifactTypeDataset, ArtifactTypeCode:
		return ArtifactType(t), nil
	}
	return "", ErrInvalidArtifactType
}

// Artifact is a stored catalogue entry. Rating is set for evaluated models only.
type Artifact struct {
	ID         int64        `json:"id"`
	Type       ArtifactType `json:"type"`
	Name       string       `json:"name"`
	URL        string       `json:"url"`
	CodeURL    string       `json:"code_url,omitempty"`
	DatasetURL string       `json:"dataset_url,omitempty"`
	Rating     *ScoreRecord `json:"rating,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
