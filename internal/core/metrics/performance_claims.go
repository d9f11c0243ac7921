package metrics

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

type PerformanceClaims struct {
	hub ports.ModelHub
	llm ports.LLMClient
}

func NewPerformanceClaims(hub ports.ModelHub, llm ports.LLMClient) *PerformanceClaims {
	return &PerformanceClaims{hub: hub, llm: llm}
}

func (p *PerformanceClaims) Name() string { return domain.MetricPerformanceClaims }

func (p *PerformanceClaims) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	if p.hub == nil || p.llm == nil {
		return scalar(0), fmt.Errorf("performance claims for %s: %w", m.ID, domain.ErrUnavailable)
	}
	card, err := p.hub.ModelCard(ctx, m.ID)
	if err != nil || strings.TrimSpace(card) == "" {
		return scalar(0), fmt.Errorf("performance claims for %s: no model card: %w", m.ID, domain.ErrUnavailable)
	}

	reply, err := p.llm.Complete(ctx, "Read the following model card of a HuggingFace model. "+
		"Evaluate on a float scale of 0 to 1 the claimed performance of the model. "+
		"Assign 0.33 points if there is benchmarking data present "+
		"and another 0.33 points if there are testing scores present, "+
		"add another 0.1 points for presence of other performance claims, "+
		"and another 0.24 if the card contains specific and data-backed claims (partial credit is allowed for this 0.24). "+
		"Reply ONLY with the total score float in the format x.xx. No other words or characters except the float.\n\n"+
		truncate(card, maxPromptDocument))
	if err != nil {
		return scalar(0), fmt.Errorf("performance claims for %s: %w", m.ID, err)
	}

	score, ok := parseFloatReply(reply)
	if !ok {
		log.WithField("model", m.ID).Warnf("could not parse performance claims score from reply %q", truncate(reply, 80))
		return scalar(0), fmt.Errorf("performance claims for %s: %w", m.ID, domain.ErrParseFailure)
	}
	return scalar(clamp01(score)), nil
}
