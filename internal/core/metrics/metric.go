// Package metrics holds the eight sub-score functions of a model evaluation.
//
// A metric never fails without a value: when it returns an error it also returns
// its documented fallback. Only domain.ErrMetricComputation is meant to abort an
// evaluation.
package metrics

import (
	"context"
	"math"
	"unicode/utf8"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

type Metric interface {
	Name() string
	Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error)
}

// Deps are the gateways metrics read from.
type Deps struct {
	Host     ports.RepositoryHost
	Hub      ports.ModelHub
	LLM      ports.LLMClient
	Links    ports.LinkChecker
	Fetcher  ports.RepositoryFetcher
	Analyzer ports.SourceAnalyzer
}

type Settings struct {
	// RampUpMode is RampUpAdoption or RampUpDocumentation.
	RampUpMode string
	// SizeFloor bounds size scores from below.
	SizeFloor float64
	// JudgmentAttempts bounds re-prompting on unparsable LLM replies.
	JudgmentAttempts int
}

func DefaultSettings() Settings {
	return Settings{
		RampUpMode:       RampUpAdoption,
		SizeFloor:        defaultSizeFloor,
		JudgmentAttempts: defaultJudgmentAttempts,
	}
}

// All returns every metric in report order.
func All(d Deps, s Settings) []Metric {
	if s.JudgmentAttempts <= 0 {
		s.JudgmentAttempts = defaultJudgmentAttempts
	}
	return []Metric{
		NewRampUpTime(d.Hub, d.LLM, s.RampUpMode),
		NewBusFactor(d.Host, d.LLM),
		NewPerformanceClaims(d.Hub, d.LLM),
		NewLicense(d.Hub, d.LLM, s.JudgmentAttempts),
		NewSizeScore(d.Hub, s.SizeFloor),
		NewDatasetAndCodeScore(d.Links),
		NewDatasetQuality(d.Hub, d.LLM, s.JudgmentAttempts),
		NewCodeQuality(d.Fetcher, d.Analyzer, d.LLM),
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func scalar(v float64) domain.MetricValue {
	return domain.ScalarValue(v)
}

// truncate keeps at most n bytes of s without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
