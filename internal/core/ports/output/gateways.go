package ports

import (
	"context"
	"time"
)

// Contributor is one entry of a repository's contributor list.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// RepositoryHost reads contributor statistics from a git host.
type RepositoryHost interface {
	// Contributors fails with domain.ErrUnavailable when the host is unreachable
	// or the repository does not exist.
	Contributors(ctx context.Context, owner, repo string) ([]Contributor, error)
}

// ModelInfo is the hub metadata of a model. Zero values mean the field was absent.
type ModelInfo struct {
	ID           string
	Downloads    int64
	Likes        int64
	LastModified *time.Time
	License      string
	PipelineTag  string
	Tags         []string
	Parameters   int64
	TotalBytes   int64
	HasCardData  bool
}

// Empty reports whether no metadata was obtained.
func (i ModelInfo) Empty() bool {
	return i.ID == "" && i.Downloads == 0 && i.Likes == 0 && i.LastModified == nil &&
		i.License == "" && i.PipelineTag == "" && len(i.Tags) == 0 &&
		i.Parameters == 0 && i.TotalBytes == 0 && !i.HasCardData
}

// DatasetInfo is the hub metadata of a dataset.
type DatasetInfo struct {
	ID           string
	Downloads    int64
	Likes        int64
	LastModified *time.Time
	License      string
	Tags         []string
}

// ModelHub reads model and dataset metadata and documentation. Failed lookups return
// an empty record and domain.ErrUnavailable.
type ModelHub interface {
	ModelInfo(ctx context.Context, id string) (ModelInfo, error)
	ModelCard(ctx context.Context, id string) (string, error)
	DatasetInfo(ctx context.Context, id string) (DatasetInfo, error)
	DatasetCard(ctx context.Context, id string) (string, error)
}

// LLMClient runs a single prompt completion.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LinkChecker reports whether a URL currently answers.
type LinkChecker interface {
	Reachable(ctx context.Context, url string) bool
}

// RepositoryFetcher materializes a local copy of a repository and returns its directory.
type RepositoryFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// LintReport counts lint findings over a sample of source files.
type LintReport struct {
	Errors       int
	FilesChecked int
}

// SourceAnalyzer inspects a local source tree.
type SourceAnalyzer interface {
	Lint(ctx context.Context, dir string) (LintReport, error)
	Identifiers(ctx context.Context, dir string) ([]string, error)
}
