package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type modelEvaluator interface {
	Evaluate(ctx context.Context, m *domain.Model) (domain.ScoreRecord, error)
}

// ArtifactService manages the artifact catalogue. Models are rated when registered.
type ArtifactService struct {
	repo      ports.ArtifactRepository
	evaluator modelEvaluator
}

func NewArtifactService(repo ports.ArtifactRepository, evaluator modelEvaluator) *ArtifactService {
	return &ArtifactService{repo: repo, evaluator: evaluator}
}

type RegisterInput struct {
	Type       domain.ArtifactType
	URL        string
	Name       string
	CodeURL    string
	DatasetURL string
}

func (s *ArtifactService) Register(ctx context.Context, in RegisterInput) (*domain.Artifact, error) {
	if in.URL == "" {
		return nil, domain.ErrMissingArtifactURL
	}
	name, err := artifactName(in.Type, in.URL, in.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	artifact := &domain.Artifact{
		Type:       in.Type,
		Name:       name,
		URL:        in.URL,
		CodeURL:    in.CodeURL,
		DatasetURL: in.DatasetURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if artifact.Type == domain.ArtifactTypeModel {
		record, err := s.rate(ctx, artifact)
		if err != nil {
			return nil, err
		}
		artifact.Rating = &record
	}

	if err := s.repo.Create(ctx, artifact); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"id": artifact.ID, "type": artifact.Type, "name": artifact.Name}).Info("artifact registered")
	return artifact, nil
}

// Get returns the artifact with id when it is of type t.
func (s *ArtifactService) Get(ctx context.Context, t domain.ArtifactType, id int64) (*domain.Artifact, error) {
	artifact, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if artifact.Type != t {
		return nil, domain.ErrArtifactNotFound
	}
	return artifact, nil
}

// PageLimit is the page size List serves for a requested limit.
func PageLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (s *ArtifactService) List(ctx context.Context, filter ports.ArtifactFilter) ([]*domain.Artifact, int, error) {
	filter.Limit = PageLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.Scan(ctx, filter)
}

// Update applies name, url, code_url and dataset_url changes. A changed model is rated again.
func (s *ArtifactService) Update(ctx context.Context, t domain.ArtifactType, id int64, updates map[string]interface{}) (*domain.Artifact, error) {
	artifact, err := s.Get(ctx, t, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if v, ok := updates["url"]; ok && v != nil {
		artifact.URL = v.(string)
		changed = true
	}
	if v, ok := updates["code_url"]; ok && v != nil {
		artifact.CodeURL = v.(string)
		changed = true
	}
	if v, ok := updates["dataset_url"]; ok && v != nil {
		artifact.DatasetURL = v.(string)
		changed = true
	}
	if v, ok := updates["name"]; ok && v != nil {
		artifact.Name = v.(string)
	}

	if artifact.URL == "" {
		return nil, domain.ErrMissingArtifactURL
	}
	if _, err := artifactName(artifact.Type, artifact.URL, artifact.Name); err != nil {
		return nil, err
	}

	if changed && artifact.Type == domain.ArtifactTypeModel {
		record, err := s.rate(ctx, artifact)
		if err != nil {
			return nil, err
		}
		artifact.Rating = &record
	}
	artifact.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *ArtifactService) Delete(ctx context.Context, t domain.ArtifactType, id int64) error {
	if _, err := s.Get(ctx, t, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Rate returns the stored rating of a model artifact, evaluating it first if needed.
func (s *ArtifactService) Rate(ctx context.Context, id int64) (*domain.ScoreRecord, error) {
	artifact, err := s.Get(ctx, domain.ArtifactTypeModel, id)
	if err != nil {
		return nil, err
	}
	if artifact.Rating != nil {
		return artifact.Rating, nil
	}

	record, err := s.rate(ctx, artifact)
	if err != nil {
		return nil, err
	}
	artifact.Rating = &record
	artifact.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact.Rating, nil
}

func (s *ArtifactService) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	log.Warn("artifact registry reset")
	return nil
}

func (s *ArtifactService) rate(ctx context.Context, artifact *domain.Artifact) (domain.ScoreRecord, error) {
	model := domain.NewModel(artifact.URL, "")
	if artifact.CodeURL != "" {
		code, err := domain.NewCode(artifact.CodeURL)
		if err != nil {
			return domain.ScoreRecord{}, err
		}
		_ = model.LinkCode(code)
	}
	if artifact.DatasetURL != "" {
		ds, err := domain.NewDataset(artifact.DatasetURL)
		if err != nil {
			ds = domain.NewNamedDataset(artifact.DatasetURL, artifact.DatasetURL)
		}
		_ = model.LinkDataset(ds)
	}

	record, err := s.evaluator.Evaluate(ctx, model)
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("rating %s: %w", artifact.URL, err)
	}
	return record, nil
}

// artifactName validates rawURL against t and returns the explicit name or one derived
// from the URL.
func artifactName(t domain.ArtifactType, rawURL, name string) (string, error) {
	ref := domain.Classify(rawURL)
	switch t {
	case domain.ArtifactTypeModel:
		if ref.Kind != domain.KindModel {
			return "", domain.ErrInvalidModelURL
		}
	case domain.ArtifactTypeCode:
		if ref.Kind != domain.KindCode {
			return "", domain.ErrInvalidCodeURL
		}
	case domain.ArtifactTypeDataset:
		if ref.Kind != domain.KindDataset && ref.Kind != domain.KindUnknown {
			return "", domain.ErrInvalidDatasetURL
		}
	default:
		return "", domain.ErrInvalidArtifactType
	}

	if name != "" {
		return name, nil
	}
	if id := ref.ID(); id != "" {
		return id, nil
	}
	return rawURL, nil
}
