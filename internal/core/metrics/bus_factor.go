package metrics

import (
	"context"
	"fmt"
	"sort"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const (
	busFactorNeutral = 0.5
	// busFactorQualitativeFloor bounds the LLM estimate used for non-GitHub hosts.
	busFactorQualitativeFloor = 0.5
)

type BusFactor struct {
	host ports.RepositoryHost
	llm  ports.LLMClient
}

func NewBusFactor(host ports.RepositoryHost, llm ports.LLMClient) *BusFactor {
	return &BusFactor{host: host, llm: llm}
}

func (b *BusFactor) Name() string { return domain.MetricBusFactor }

func (b *BusFactor) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	if m.Code == nil {
		return scalar(busFactorNeutral), fmt.Errorf("bus factor for %s: %w", m.ID, domain.ErrNoLink)
	}
	if m.Code.RepoType != domain.HostGitHub {
		return b.qualitative(ctx, m.Code)
	}
	if b.host == nil {
		return scalar(busFactorNeutral), fmt.Errorf("bus factor: %w: no repository host", domain.ErrUnavailable)
	}

	contributors, err := b.host.Contributors(ctx, m.Code.Owner, m.Code.Name)
	if err != nil {
		return scalar(busFactorNeutral), fmt.Errorf("bus factor for %s: %w", m.Code.ID(), err)
	}
	return scalar(BusFactorScore(contributors)), nil
}

// BusFactorScore is 1 minus the share of contributors needed to cover half of all
// contributions. Concentrated repositories score low; no contributors scores 0.
func BusFactorScore(contributors []ports.Contributor) float64 {
	if len(contributors) == 0 {
		return 0
	}

	counts := make([]int, 0, len(contributors))
	total := 0
	for _, c := range contributors {
		n := c.Contributions
		if n < 0 {
			n = 0
		}
		counts = append(counts, n)
		total += n
	}
	if total == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	needed, cumulative := 0, 0
	for _, n := range counts {
		cumulative += n
		needed++
		if 2*cumulative >= total {
			break
		}
	}
	return clamp01(1 - float64(needed)/float64(len(counts)))
}

func (b *BusFactor) qualitative(ctx context.Context, code *domain.Code) (domain.MetricValue, error) {
	if b.llm == nil {
		return scalar(busFactorNeutral), fmt.Errorf("bus factor for %s: %w", code.URL, domain.ErrUnavailable)
	}
	prompt := fmt.Sprintf("Estimate how resilient the project hosted at %s is to losing its main contributors "+
		"(its bus factor), judging from how widely maintained such a project usually is. "+
		"Return ONLY a float in [0,1], where 1.0 means many active maintainers.\n\nJust the number:", code.URL)

	reply, err := b.llm.Complete(ctx, prompt)
	if err != nil {
		return scalar(busFactorNeutral), fmt.Errorf("bus factor for %s: %w", code.URL, err)
	}
	v, ok := firstFloat(reply)
	if !ok {
		return scalar(busFactorNeutral), fmt.Errorf("bus factor for %s: %w", code.URL, domain.ErrParseFailure)
	}
	return scalar(clamp(v, busFactorQualitativeFloor, 1)), nil
}
