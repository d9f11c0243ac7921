package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

type DatasetQuality struct {
	hub      ports.ModelHub
	llm      ports.LLMClient
	attempts int
}

func NewDatasetQuality(hub ports.ModelHub, llm ports.LLMClient, attempts int) *DatasetQuality {
	return &DatasetQuality{hub: hub, llm: llm, attempts: attempts}
}

func (d *DatasetQuality) Name() string { return domain.MetricDatasetQuality }

func (d *DatasetQuality) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	if m.Dataset == nil {
		return scalar(0), fmt.Errorf("dataset quality for %s: %w", m.ID, domain.ErrNoLink)
	}
	if d.hub == nil || d.llm == nil {
		return scalar(0), fmt.Errorf("dataset quality for %s: %w", m.Dataset.Name, domain.ErrUnavailable)
	}

	card, err := d.hub.DatasetCard(ctx, m.Dataset.Name)
	if err != nil || strings.TrimSpace(card) == "" {
		return scalar(0), fmt.Errorf("dataset quality for %s: no dataset card: %w", m.Dataset.Name, domain.ErrUnavailable)
	}

	score, explanation, err := askScoreLine(ctx, d.llm, datasetQualityPrompt(card), d.attempts)
	if err != nil {
		if errors.Is(err, domain.ErrParseFailure) {
			log.WithField("dataset", m.Dataset.Name).Warn("could not parse dataset quality score")
		}
		return scalar(0), fmt.Errorf("dataset quality for %s: %w", m.Dataset.Name, err)
	}

	log.WithFields(log.Fields{"dataset": m.Dataset.Name, "score": score}).Debugf("dataset quality explanation: %s", explanation)
	return scalar(clamp01(score)), nil
}

func datasetQualityPrompt(card string) string {
	return fmt.Sprintf(`Evaluate the quality of the dataset described by the following dataset card on a scale of 0 to 1.
Award up to 0.4 points for documentation quality, 0.2 points for size and diversity of the data, 0.2 points for clearly defined training/validation/test splits, and 0.2 points for stated license and citation information.
Your answer must start with a line in the following format: <score between 0-1>: <explanation and score breakdown>

%s`, truncate(card, maxPromptDocument))
}
