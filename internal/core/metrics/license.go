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

const noLicenseInfo = "No license information found in README"

// License judges license clarity and LGPLv2.1 compatibility. Repeatedly unparsable
// judgments fail the evaluation instead of degrading to a guess.
type License struct {
	hub      ports.ModelHub
	llm      ports.LLMClient
	attempts int
}

func NewLicense(hub ports.ModelHub, llm ports.LLMClient, attempts int) *License {
	return &License{hub: hub, llm: llm, attempts: attempts}
}

func (l *License) Name() string { return domain.MetricLicense }

func (l *License) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	if l.llm == nil {
		return scalar(0), fmt.Errorf("license for %s: %w: no llm configured", m.ID, domain.ErrUnavailable)
	}

	var declared, readme string
	if l.hub != nil {
		info, _ := l.hub.ModelInfo(ctx, m.ID)
		declared = info.License
		readme, _ = l.hub.ModelCard(ctx, m.ID)
	}

	extracted := noLicenseInfo
	if strings.TrimSpace(readme) != "" {
		reply, err := l.llm.Complete(ctx, fmt.Sprintf(
			"Extract all license-related information from the following README content:\n%s\n"+
				"If no license information is found, respond with '%s'.",
			truncate(readme, maxPromptDocument), noLicenseInfo))
		if err != nil {
			return scalar(0), fmt.Errorf("license for %s: %w", m.ID, err)
		}
		extracted = strings.TrimSpace(reply)
	}

	score, explanation, err := askScoreLine(ctx, l.llm, licensePrompt(declared, extracted), l.attempts)
	switch {
	case errors.Is(err, domain.ErrParseFailure):
		log.WithField("model", m.ID).Error("could not parse the license score from the response")
		return scalar(0), fmt.Errorf("%w: license for %s: %v", domain.ErrMetricComputation, m.ID, err)
	case err != nil:
		return scalar(0), fmt.Errorf("license for %s: %w", m.ID, err)
	}

	log.WithFields(log.Fields{"model": m.ID, "score": score}).Debugf("license explanation: %s", explanation)
	return scalar(clamp01(score)), nil
}

func licensePrompt(declared, extracted string) string {
	info := extracted
	if declared != "" {
		info = declared + ": " + extracted
	}
	return fmt.Sprintf(`Based on the following license information of a model, determine the license score on a scale of 0 to 1:
%s
If the license is not explicitly mentioned, consider common open-source licenses and their compatibility with LGPLv2.1. Evaluate the information on its clarity & permissiveness (0.5 points) and compatibility with the LGPLv2.1 license (0.5 points). In your explanation, you must ALWAYS specify how many points were scored on each criteria (out of 0.5 points). Your answer should be in the following format: <score between 0-1>: <explanation and score breakdown>`, info)
}
