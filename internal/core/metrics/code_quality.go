package metrics

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const (
	unassessableCodeScore = 0.1
	maxErrorsPerFile      = 50
	maxNamingIdentifiers  = 200
	maxNamingScore        = 0.5
	// lintShare is the part of code quality lint can award; naming adds the rest.
	lintShare             = 0.5
)

// CodeQuality lints a sample of the linked repository and asks the LLM to judge
// identifier naming.
type CodeQuality struct {
	fetcher  ports.RepositoryFetcher
	analyzer ports.SourceAnalyzer
	llm      ports.LLMClient
}

func NewCodeQuality(fetcher ports.RepositoryFetcher, analyzer ports.SourceAnalyzer, llm ports.LLMClient) *CodeQuality {
	return &CodeQuality{fetcher: fetcher, analyzer: analyzer, llm: llm}
}

func (c *CodeQuality) Name() string { return domain.MetricCodeQuality }

func (c *CodeQuality) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	if m.Code == nil {
		return scalar(0), fmt.Errorf("code quality for %s: %w", m.ID, domain.ErrNoLink)
	}
	if m.Code.RepoType != domain.HostGitHub {
		return scalar(unassessableCodeScore), fmt.Errorf("code quality for %s: %w: %s host", m.Code.URL, domain.ErrUnsupported, m.Code.RepoType)
	}
	if c.analyzer == nil {
		return scalar(unassessableCodeScore), fmt.Errorf("code quality for %s: %w: no analyzer", m.Code.URL, domain.ErrUnavailable)
	}

	dir := m.Code.ClonedPath
	if dir == "" {
		if c.fetcher == nil {
			return scalar(unassessableCodeScore), fmt.Errorf("code quality for %s: %w: no fetcher", m.Code.URL, domain.ErrUnavailable)
		}
		fetched, err := c.fetcher.Fetch(ctx, m.Code.URL)
		if err != nil {
			return scalar(unassessableCodeScore), fmt.Errorf("code quality for %s: %w", m.Code.URL, err)
		}
		dir = fetched
	}

	report, err := c.analyzer.Lint(ctx, dir)
	if err != nil {
		return scalar(unassessableCodeScore), fmt.Errorf("code quality for %s: lint: %w", m.Code.URL, err)
	}
	if report.FilesChecked <= 0 {
		return scalar(1), nil
	}
	lint := lintShare * LintScore(report)

	naming, err := c.naming(ctx, dir)
	if err != nil {
		log.WithField("repo", m.Code.ID()).Debugf("naming judgment unavailable, using lint only: %v", err)
		return scalar(lint), nil
	}
	return scalar(clamp01(lint + naming)), nil
}

// LintScore maps errors per file onto [0,1]. A tree with no sampled files scores 1.
func LintScore(r ports.LintReport) float64 {
	if r.FilesChecked <= 0 {
		return 1
	}
	perFile := float64(r.Errors) / float64(r.FilesChecked)
	return clamp01(1 - perFile/maxErrorsPerFile)
}

func (c *CodeQuality) naming(ctx context.Context, dir string) (float64, error) {
	if c.llm == nil {
		return 0, domain.ErrUnavailable
	}
	idents, err := c.analyzer.Identifiers(ctx, dir)
	if err != nil {
		return 0, err
	}
	if len(idents) == 0 {
		return 0, fmt.Errorf("no identifiers: %w", domain.ErrUnavailable)
	}
	if len(idents) > maxNamingIdentifiers {
		idents = idents[:maxNamingIdentifiers]
	}

	reply, err := c.llm.Complete(ctx, "The following identifiers were sampled from a Python code base. "+
		"Judge how descriptive and consistent their naming is. "+
		"Reply ONLY with a float between 0 and 0.5, where 0.5 is excellent naming.\n\n"+
		strings.Join(idents, ", "))
	if err != nil {
		return 0, err
	}
	v, ok := firstFloat(reply)
	if !ok {
		return 0, domain.ErrParseFailure
	}
	return clamp(v, 0, maxNamingScore), nil
}
