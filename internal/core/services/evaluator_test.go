package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-scoring-service/internal/core/domain"
	"model-scoring-service/internal/core/metrics"
	ports "model-scoring-service/internal/core/ports/output"
	"model-scoring-service/internal/testutil"
)

// stubMetric returns a fixed value, optionally failing or panicking.
type stubMetric struct {
	name  string
	value domain.MetricValue
	err   error
	panic bool
	wait  bool
}

func (s stubMetric) Name() string { return s.name }

func (s stubMetric) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	if s.panic {
		panic("boom")
	}
	if s.wait {
		<-ctx.Done()
		return s.value, fmt.Errorf("%w: %v", domain.ErrUnavailable, ctx.Err())
	}
	return s.value, s.err
}

func perfectMetrics() []metrics.Metric {
	ms := make([]metrics.Metric, 0, len(domain.MetricNames))
	for _, name := range domain.MetricNames {
		v := domain.ScalarValue(1)
		if name == domain.MetricSizeScore {
			v = domain.SizeValue(domain.NewSizeScore(1))
		}
		ms = append(ms, stubMetric{name: name, value: v})
	}
	return ms
}

func replaceMetric(ms []metrics.Metric, replacement stubMetric) []metrics.Metric {
	out := make([]metrics.Metric, len(ms))
	for i, m := range ms {
		out[i] = m
		if m.Name() == replacement.name {
			out[i] = replacement
		}
	}
	return out
}

func bertModel(t *testing.T) *domain.Model {
	t.Helper()
	m := domain.NewModel("https://huggingface.co/google-bert/bert-base-uncased", "")
	code, err := domain.NewCode("https://github.com/google-research/bert")
	require.NoError(t, err)
	ds, err := domain.NewDataset("https://huggingface.co/datasets/bookcorpus/bookcorpus")
	require.NoError(t, err)
	require.NoError(t, m.LinkCode(code))
	require.NoError(t, m.LinkDataset(ds))
	return m
}

// ============================================================================
// Evaluate Tests
// ============================================================================

func TestEvaluator_PerfectScores(t *testing.T) {
	e := NewEvaluator(perfectMetrics(), nil, EvaluatorOptions{})
	m := bertModel(t)

	record, err := e.Evaluate(context.Background(), m)

	require.NoError(t, err)
	assert.Equal(t, 1.0, record.NetScore)
	assert.Equal(t, "bert-base-uncased", record.Name)
	assert.Equal(t, domain.CategoryModel, record.Category)
	assert.True(t, m.Evaluated())
	for key, latency := range m.Latencies {
		assert.GreaterOrEqual(t, latency, int64(0), key)
	}
}

func TestEvaluator_NetScoreIsDeterministic(t *testing.T) {
	ms := replaceMetric(perfectMetrics(), stubMetric{name: domain.MetricLicense, value: domain.ScalarValue(0)})
	ms = replaceMetric(ms, stubMetric{name: domain.MetricBusFactor, value: domain.ScalarValue(0)})
	e := NewEvaluator(ms, nil, EvaluatorOptions{})

	first, err := e.Evaluate(context.Background(), bertModel(t))
	require.NoError(t, err)
	second, err := e.Evaluate(context.Background(), bertModel(t))
	require.NoError(t, err)

	assert.Equal(t, first.NetScore, second.NetScore)
	assert.InDelta(t, 0.83, first.NetScore, 1e-9)
}

func TestEvaluator_AlreadyEvaluated(t *testing.T) {
	e := NewEvaluator(perfectMetrics(), nil, EvaluatorOptions{})
	m := bertModel(t)

	_, err := e.Evaluate(context.Background(), m)
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), m)

	assert.ErrorIs(t, err, domain.ErrModelEvaluated)
	assert.ErrorIs(t, m.LinkCode(nil), domain.ErrModelEvaluated)
}

func TestEvaluator_MetricComputationErrorEscapes(t *testing.T) {
	ms := replaceMetric(perfectMetrics(), stubMetric{
		name: domain.MetricLicense,
		err:  fmt.Errorf("%w: license", domain.ErrMetricComputation),
	})
	e := NewEvaluator(ms, nil, EvaluatorOptions{})
	m := bertModel(t)

	_, err := e.Evaluate(context.Background(), m)

	assert.ErrorIs(t, err, domain.ErrMetricComputation)
	assert.False(t, m.Evaluated())
	assert.Zero(t, m.Metrics[domain.MetricRampUpTime].Score)
}

func TestEvaluator_AbsorbsFallbacksAndPanics(t *testing.T) {
	ms := replaceMetric(perfectMetrics(), stubMetric{name: domain.MetricCodeQuality, panic: true})
	ms = replaceMetric(ms, stubMetric{
		name:  domain.MetricBusFactor,
		value: domain.ScalarValue(0.5),
		err:   domain.ErrNoLink,
	})
	e := NewEvaluator(ms, nil, EvaluatorOptions{})

	record, err := e.Evaluate(context.Background(), bertModel(t))

	require.NoError(t, err)
	assert.Zero(t, record.CodeQuality)
	assert.Equal(t, 0.5, record.BusFactor)
}

func TestEvaluator_MetricTimeout(t *testing.T) {
	ms := replaceMetric(perfectMetrics(), stubMetric{
		name:  domain.MetricPerformanceClaims,
		value: domain.ScalarValue(0),
		wait:  true,
	})
	e := NewEvaluator(ms, nil, EvaluatorOptions{MetricTimeout: 20 * time.Millisecond})

	record, err := e.Evaluate(context.Background(), bertModel(t))

	require.NoError(t, err)
	assert.Zero(t, record.PerformanceClaims)
	assert.GreaterOrEqual(t, record.PerformanceClaimsLatency, int64(15))
}

func TestEvaluator_ReportsToObserver(t *testing.T) {
	observer := new(testutil.MockObserver)
	observer.On("ObserveMetric", mock.Anything, mock.Anything, mock.Anything).Return()
	observer.On("ObserveEvaluation", 1.0, mock.Anything, nil).Return()

	e := NewEvaluator(perfectMetrics(), observer, EvaluatorOptions{})
	_, err := e.Evaluate(context.Background(), bertModel(t))

	require.NoError(t, err)
	observer.AssertNumberOfCalls(t, "ObserveMetric", len(domain.MetricNames))
	observer.AssertNumberOfCalls(t, "ObserveEvaluation", 1)
}

// ============================================================================
// End-to-end with real metrics and failing gateways
// ============================================================================

func failingDeps() metrics.Deps {
	host := new(testutil.MockRepositoryHost)
	host.On("Contributors", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrUnavailable)

	hub := new(testutil.MockModelHub)
	hub.On("ModelInfo", mock.Anything, mock.Anything).Return(ports.ModelInfo{}, domain.ErrUnavailable)
	hub.On("ModelCard", mock.Anything, mock.Anything).Return("", domain.ErrUnavailable)
	hub.On("DatasetInfo", mock.Anything, mock.Anything).Return(ports.DatasetInfo{}, domain.ErrUnavailable)
	hub.On("DatasetCard", mock.Anything, mock.Anything).Return("", domain.ErrUnavailable)

	llm := new(testutil.MockLLMClient)
	llm.On("Complete", mock.Anything, mock.Anything).Return("", domain.ErrUnavailable)

	links := new(testutil.MockLinkChecker)
	links.On("Reachable", mock.Anything, mock.Anything).Return(false)

	fetcher := new(testutil.MockRepositoryFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return("", errors.New("git unavailable"))

	return metrics.Deps{
		Host:     host,
		Hub:      hub,
		LLM:      llm,
		Links:    links,
		Fetcher:  fetcher,
		Analyzer: new(testutil.MockSourceAnalyzer),
	}
}

func TestEvaluator_AllGatewaysDown(t *testing.T) {
	e := NewEvaluator(metrics.All(failingDeps(), metrics.DefaultSettings()), nil, EvaluatorOptions{})

	record, err := e.Evaluate(context.Background(), bertModel(t))
	require.NoError(t, err)

	// size 0.05 everywhere, bus factor neutral, code quality unassessable
	assert.InDelta(t, 0.04, record.NetScore, 1e-9)
	assert.Equal(t, 0.5, record.BusFactor)
	assert.Equal(t, 0.1, record.CodeQuality)
	assert.Zero(t, record.License)

	raw, err := json.Marshal(record)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, name := range domain.MetricNames {
		assert.Contains(t, fields, name)
		assert.Contains(t, fields, domain.LatencyKey(name))
	}
	assert.Contains(t, fields, "net_score")
	assert.Contains(t, fields, "net_score_latency")
	assert.Equal(t, "MODEL", fields["category"])

	size, ok := fields["size_score"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, size, len(domain.Platforms))
}

func TestEvaluator_NoLinksModel(t *testing.T) {
	e := NewEvaluator(metrics.All(failingDeps(), metrics.DefaultSettings()), nil, EvaluatorOptions{})
	m := domain.NewModel("https://huggingface.co/openai/whisper-tiny/tree/main", "")

	record, err := e.Evaluate(context.Background(), m)

	require.NoError(t, err)
	assert.Equal(t, "whisper-tiny", record.Name)
	assert.Zero(t, record.DatasetQuality)
	assert.Zero(t, record.CodeQuality)
	assert.Zero(t, record.DatasetAndCodeScore)
	assert.Equal(t, 0.5, record.BusFactor)
}

func TestEvaluator_UnparsableLicenseFailsEvaluation(t *testing.T) {
	deps := failingDeps()
	llm := new(testutil.MockLLMClient)
	llm.On("Complete", mock.Anything, mock.Anything).Return("I am not sure.", nil)
	deps.LLM = llm

	e := NewEvaluator(metrics.All(deps, metrics.DefaultSettings()), nil, EvaluatorOptions{})
	m := bertModel(t)

	_, err := e.Evaluate(context.Background(), m)

	assert.ErrorIs(t, err, domain.ErrMetricComputation)
	assert.False(t, m.Evaluated())
}

// ============================================================================
// EvaluateAll Tests
// ============================================================================

type modelSensitiveMetric struct {
	stubMetric
	failFor string
}

func (s modelSensitiveMetric) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	if m.ID == s.failFor {
		return domain.MetricValue{}, domain.ErrMetricComputation
	}
	return s.stubMetric.Compute(ctx, m)
}

func TestEvaluator_EvaluateAllIsolatesFailures(t *testing.T) {
	ms := perfectMetrics()
	for i, m := range ms {
		if m.Name() == domain.MetricLicense {
			ms[i] = modelSensitiveMetric{stubMetric: m.(stubMetric), failFor: "acme/broken"}
		}
	}
	e := NewEvaluator(ms, nil, EvaluatorOptions{Concurrency: 2})

	models := []*domain.Model{
		domain.NewModel("https://huggingface.co/acme/good", ""),
		domain.NewModel("https://huggingface.co/acme/broken", ""),
		domain.NewModel("https://huggingface.co/acme/fine", ""),
	}
	outcomes := e.EvaluateAll(context.Background(), models)

	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, domain.ErrMetricComputation)
	assert.NoError(t, outcomes[2].Err)
	assert.Equal(t, "fine", outcomes[2].Record.Name)
	assert.Same(t, models[1], outcomes[1].Model)
}
