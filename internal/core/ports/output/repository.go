package ports

import (
	"context"

	"model-scoring-service/internal/core/domain"
)

type ArtifactFilter struct {
	Name   string
	Type   domain.ArtifactType
	Limit  int
	Offset int
}

// ArtifactRepository is the artifact key-value store, keyed by numeric id.
type ArtifactRepository interface {
	// Create assigns artifact.ID.
	Create(ctx context.Context, artifact *domain.Artifact) error
	Get(ctx context.Context, id int64) (*domain.Artifact, error)
	Update(ctx context.Context, artifact *domain.Artifact) error
	Delete(ctx context.Context, id int64) error
	Scan(ctx context.Context, filter ArtifactFilter) ([]*domain.Artifact, int, error)
	Reset(ctx context.Context) error
}
