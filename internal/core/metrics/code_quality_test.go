package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
	"model-scoring-service/internal/testutil"
)

func TestLintScore(t *testing.T) {
	tests := []struct {
		name     string
		report   ports.LintReport
		expected float64
	}{
		{name: "no files", report: ports.LintReport{}, expected: 1},
		{name: "clean", report: ports.LintReport{Errors: 0, FilesChecked: 12}, expected: 1},
		{name: "five per file", report: ports.LintReport{Errors: 10, FilesChecked: 2}, expected: 0.9},
		{name: "over cap", report: ports.LintReport{Errors: 300, FilesChecked: 3}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LintScore(tt.report), 1e-9)
		})
	}
}

func githubModel(t *testing.T) *domain.Model {
	t.Helper()
	m := domain.NewModel("https://huggingface.co/google-bert/bert-base-uncased", "")
	code, err := domain.NewCode("https://github.com/google-research/bert")
	require.NoError(t, err)
	require.NoError(t, m.LinkCode(code))
	return m
}

func TestCodeQuality_LintAndNaming(t *testing.T) {
	fetcher := new(testutil.MockRepositoryFetcher)
	fetcher.On("Fetch", mock.Anything, "https://github.com/google-research/bert").Return("/tmp/repos/bert", nil)

	analyzer := new(testutil.MockSourceAnalyzer)
	analyzer.On("Lint", mock.Anything, "/tmp/repos/bert").Return(ports.LintReport{Errors: 10, FilesChecked: 2}, nil)
	analyzer.On("Identifiers", mock.Anything, "/tmp/repos/bert").Return([]string{"input_ids", "attention_mask"}, nil)

	llm := new(testutil.MockLLMClient)
	llm.On("Complete", mock.Anything, mock.Anything).Return("0.4", nil)

	v, err := NewCodeQuality(fetcher, analyzer, llm).Compute(context.Background(), githubModel(t))

	require.NoError(t, err)
	assert.InDelta(t, 0.5*0.9+0.4, v.Score, 1e-9)
	fetcher.AssertExpectations(t)
}

func TestCodeQuality_LintOnlyWithoutLLM(t *testing.T) {
	analyzer := new(testutil.MockSourceAnalyzer)
	analyzer.On("Lint", mock.Anything, "/work/bert").Return(ports.LintReport{Errors: 10, FilesChecked: 2}, nil)

	m := githubModel(t)
	m.Code.ClonedPath = "/work/bert"

	v, err := NewCodeQuality(nil, analyzer, nil).Compute(context.Background(), m)

	require.NoError(t, err)
	assert.InDelta(t, 0.45, v.Score, 1e-9)
	analyzer.AssertNotCalled(t, "Identifiers", mock.Anything, mock.Anything)
}

func TestCodeQuality_NamingNeverLowersScore(t *testing.T) {
	clean := ports.LintReport{Errors: 0, FilesChecked: 5}

	analyzer := new(testutil.MockSourceAnalyzer)
	analyzer.On("Lint", mock.Anything, "/work/bert").Return(clean, nil)
	analyzer.On("Identifiers", mock.Anything, "/work/bert").Return([]string{"x", "tmp2"}, nil)

	llm := new(testutil.MockLLMClient)
	llm.On("Complete", mock.Anything, mock.Anything).Return("0.1", nil)

	down := new(testutil.MockLLMClient)
	down.On("Complete", mock.Anything, mock.Anything).Return("", domain.ErrUnavailable)

	lintOnly := githubModel(t)
	lintOnly.Code.ClonedPath = "/work/bert"
	withoutNaming, err := NewCodeQuality(nil, analyzer, down).Compute(context.Background(), lintOnly)
	require.NoError(t, err)

	blended := githubModel(t)
	blended.Code.ClonedPath = "/work/bert"
	withNaming, err := NewCodeQuality(nil, analyzer, llm).Compute(context.Background(), blended)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, withoutNaming.Score, 1e-9)
	assert.InDelta(t, 0.6, withNaming.Score, 1e-9)
	assert.LessOrEqual(t, withoutNaming.Score, withNaming.Score)
}

func TestCodeQuality_NoPythonFiles(t *testing.T) {
	analyzer := new(testutil.MockSourceAnalyzer)
	analyzer.On("Lint", mock.Anything, "/work/bert").Return(ports.LintReport{}, nil)

	m := githubModel(t)
	m.Code.ClonedPath = "/work/bert"

	v, err := NewCodeQuality(nil, analyzer, new(testutil.MockLLMClient)).Compute(context.Background(), m)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.Score, 1e-9)
	analyzer.AssertNotCalled(t, "Identifiers", mock.Anything, mock.Anything)
}

func TestCodeQuality_FetchFailure(t *testing.T) {
	fetcher := new(testutil.MockRepositoryFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return("", errors.New("clone failed"))

	v, err := NewCodeQuality(fetcher, new(testutil.MockSourceAnalyzer), nil).Compute(context.Background(), githubModel(t))

	assert.Error(t, err)
	assert.InDelta(t, unassessableCodeScore, v.Score, 1e-9)
}

func TestCodeQuality_NonGitHubHost(t *testing.T) {
	m := domain.NewModel("https://huggingface.co/acme/m", "")
	code, err := domain.NewCode("https://huggingface.co/spaces/acme/demo")
	require.NoError(t, err)
	_ = m.LinkCode(code)

	v, err := NewCodeQuality(nil, nil, nil).Compute(context.Background(), m)

	assert.ErrorIs(t, err, domain.ErrUnsupported)
	assert.InDelta(t, unassessableCodeScore, v.Score, 1e-9)
}

func TestCodeQuality_NoCodeLink(t *testing.T) {
	v, err := NewCodeQuality(nil, nil, nil).Compute(context.Background(), domain.NewModel("https://huggingface.co/acme/m", ""))

	assert.ErrorIs(t, err, domain.ErrNoLink)
	assert.Zero(t, v.Score)
}
