package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	ports "model-scoring-service/internal/core/ports/output"
)

// MockRepositoryHost is a mock of RepositoryHost.
type MockRepositoryHost struct {
	mock.Mock
}

func (m *MockRepositoryHost) Contributors(ctx context.Context, owner, repo string) ([]ports.Contributor, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Contributor), args.Error(1)
}

// MockModelHub is a mock of ModelHub.
type MockModelHub struct {
	mock.Mock
}

func (m *MockModelHub) ModelInfo(ctx context.Context, id string) (ports.ModelInfo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.ModelInfo), args.Error(1)
}

func (m *MockModelHub) ModelCard(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockModelHub) DatasetInfo(ctx context.Context, id string) (ports.DatasetInfo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.DatasetInfo), args.Error(1)
}

func (m *MockModelHub) DatasetCard(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// MockLLMClient is a mock of LLMClient.
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockLinkChecker is a mock of LinkChecker.
type MockLinkChecker struct {
	mock.Mock
}

func (m *MockLinkChecker) Reachable(ctx context.Context, url string) bool {
	args := m.Called(ctx, url)
	return args.Bool(0)
}

// MockRepositoryFetcher is a mock of RepositoryFetcher.
type MockRepositoryFetcher struct {
	mock.Mock
}

func (m *MockRepositoryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// MockSourceAnalyzer is a mock of SourceAnalyzer.
type MockSourceAnalyzer struct {
	mock.Mock
}

func (m *MockSourceAnalyzer) Lint(ctx context.Context, dir string) (ports.LintReport, error) {
	args := m.Called(ctx, dir)
	return args.Get(0).(ports.LintReport), args.Error(1)
}

func (m *MockSourceAnalyzer) Identifiers(ctx context.Context, dir string) ([]string, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockObserver is a mock of EvaluationObserver.
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveMetric(metric string, latency time.Duration, err error) {
	m.Called(metric, latency, err)
}

func (m *MockObserver) ObserveEvaluation(netScore float64, latency time.Duration, err error) {
	m.Called(netScore, latency, err)
}
