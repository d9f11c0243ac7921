package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-scoring-service/internal/core/domain"
	"model-scoring-service/internal/testutil"
)

func TestDatasetQuality_ScoresCard(t *testing.T) {
	hub := new(testutil.MockModelHub)
	hub.On("DatasetCard", mock.Anything, "bookcorpus/bookcorpus").Return("# BookCorpus\n\nSplits: train.", nil)

	llm := new(testutil.MockLLMClient)
	llm.On("Complete", mock.Anything, mock.Anything).Return("0.6: documented (0.3), splits (0.2), license (0.1)", nil)

	m := domain.NewModel("https://huggingface.co/google-bert/bert-base-uncased", "")
	ds, err := domain.NewDataset("https://huggingface.co/datasets/bookcorpus/bookcorpus")
	require.NoError(t, err)
	_ = m.LinkDataset(ds)

	v, err := NewDatasetQuality(hub, llm, 3).Compute(context.Background(), m)

	require.NoError(t, err)
	assert.InDelta(t, 0.6, v.Score, 1e-9)
}

func TestDatasetQuality_ParseFailureIsAbsorbed(t *testing.T) {
	hub := new(testutil.MockModelHub)
	hub.On("DatasetCard", mock.Anything, mock.Anything).Return("card", nil)

	llm := new(testutil.MockLLMClient)
	llm.On("Complete", mock.Anything, mock.Anything).Return("It is decent.", nil)

	m := domain.NewModel("https://huggingface.co/acme/m", "")
	_ = m.LinkDataset(domain.NewNamedDataset("https://huggingface.co/datasets/squad", "squad"))

	v, err := NewDatasetQuality(hub, llm, 3).Compute(context.Background(), m)

	assert.ErrorIs(t, err, domain.ErrParseFailure)
	assert.False(t, errors.Is(err, domain.ErrMetricComputation))
	assert.Zero(t, v.Score)
}

func TestDatasetQuality_NoDataset(t *testing.T) {
	v, err := NewDatasetQuality(nil, nil, 3).Compute(context.Background(), domain.NewModel("https://huggingface.co/acme/m", ""))

	assert.ErrorIs(t, err, domain.ErrNoLink)
	assert.Zero(t, v.Score)
}
