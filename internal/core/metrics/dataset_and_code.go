package metrics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

// DatasetAndCodeScore checks that the model's code, dataset and own page are reachable.
type DatasetAndCodeScore struct {
	links ports.LinkChecker
}

func NewDatasetAndCodeScore(links ports.LinkChecker) *DatasetAndCodeScore {
	return &DatasetAndCodeScore{links: links}
}

func (d *DatasetAndCodeScore) Name() string { return domain.MetricDatasetAndCodeScore }

func (d *DatasetAndCodeScore) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	var codeURL, datasetURL string
	if m.Code != nil {
		codeURL = m.Code.URL
	}
	if m.Dataset != nil {
		datasetURL = m.Dataset.URL
	}

	urls := []string{codeURL, datasetURL, m.URL}
	ok := make([]bool, len(urls))

	var g errgroup.Group
	for i, u := range urls {
		if u == "" || d.links == nil {
			continue
		}
		g.Go(func() error {
			ok[i] = d.links.Reachable(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return scalar(LinkScore(ok[0], ok[1], ok[2])), nil
}

// LinkScore is the mean of code reachable, dataset reachable and at least two of the
// three links reachable.
func LinkScore(codeOK, datasetOK, modelOK bool) float64 {
	reachable := 0
	for _, ok := range []bool{codeOK, datasetOK, modelOK} {
		if ok {
			reachable++
		}
	}
	return (boolScore(codeOK) + boolScore(datasetOK) + boolScore(reachable >= 2)) / 3
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
