package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bertURL = "https://huggingface.co/google-bert/bert-base-uncased"

func TestNewModel_InitialisesEveryKey(t *testing.T) {
	m := NewModel(bertURL, "")

	assert.Equal(t, "google-bert/bert-base-uncased", m.ID)
	assert.Equal(t, "bert-base-uncased", m.Name)
	assert.Len(t, m.Metrics, len(MetricNames))
	for _, name := range MetricNames {
		_, ok := m.Metrics[name]
		assert.True(t, ok, name)
		assert.Equal(t, int64(0), m.Latencies[LatencyKey(name)])
	}
	assert.Equal(t, NewSizeScore(0), m.Metrics[MetricSizeScore].Size)
	assert.Contains(t, m.Latencies, LatencyKey(MetricNetScore))
	assert.False(t, m.Evaluated())
}

func TestNewModel_ExplicitID(t *testing.T) {
	m := NewModel(bertURL, "custom/id")
	assert.Equal(t, "custom/id", m.ID)
	assert.Equal(t, "bert-base-uncased", m.Name)
}

func TestModel_LinkAfterSealFails(t *testing.T) {
	m := NewModel(bertURL, "")
	code, err := NewCode("https://github.com/google-research/bert")
	require.NoError(t, err)
	require.NoError(t, m.LinkCode(code))

	m.Seal(0.5, time.Millisecond)

	assert.ErrorIs(t, m.LinkCode(code), ErrModelEvaluated)
	assert.ErrorIs(t, m.LinkDataset(NewNamedDataset("x", "x")), ErrModelEvaluated)
	assert.True(t, m.Evaluated())
}

func TestModel_SetMetric(t *testing.T) {
	m := NewModel(bertURL, "")
	code, _ := NewCode("https://github.com/google-research/bert")
	ds, _ := NewDataset("https://huggingface.co/datasets/bookcorpus/bookcorpus")
	_ = m.LinkCode(code)
	_ = m.LinkDataset(ds)

	m.SetMetric(MetricCodeQuality, ScalarValue(0.7), 15*time.Millisecond)
	m.SetMetric(MetricDatasetQuality, ScalarValue(0.4), -time.Second)
	m.SetMetric(MetricSizeScore, MetricValue{}, time.Millisecond)

	assert.Equal(t, 0.7, code.CodeQuality)
	assert.Equal(t, 0.4, ds.DatasetQuality)
	assert.Equal(t, int64(15), m.Latencies[LatencyKey(MetricCodeQuality)])
	assert.Equal(t, int64(0), m.Latencies[LatencyKey(MetricDatasetQuality)])
	assert.Equal(t, NewSizeScore(0), m.Metrics[MetricSizeScore].Size)
}

func TestNewCodeAndDataset_RejectWrongKind(t *testing.T) {
	_, err := NewCode(bertURL)
	assert.ErrorIs(t, err, ErrInvalidCodeURL)

	_, err = NewDataset("https://github.com/google-research/bert")
	assert.ErrorIs(t, err, ErrInvalidDatasetURL)

	ds, err := NewDataset("https://huggingface.co/datasets/bookcorpus/bookcorpus")
	require.NoError(t, err)
	assert.Equal(t, "bookcorpus/bookcorpus", ds.Name)
}

func TestDatasetRegistry_KeepsFirst(t *testing.T) {
	reg := DatasetRegistry{}
	first := NewNamedDataset("https://a", "squad")
	reg.Add(first)
	reg.Add(NewNamedDataset("https://b", "squad"))
	reg.Add(NewNamedDataset("https://c", "imdb"))
	reg.Add(nil)
	reg.Add(&Dataset{})

	assert.Same(t, first, reg["squad"])
	assert.Equal(t, []string{"imdb", "squad"}, reg.Names())
}

func TestValidateArtifactType(t *testing.T) {
	got, err := ValidateArtifactType("dataset")
	require.NoError(t, err)
	assert.Equal(t, ArtifactTypeDataset, got)

	_, err = ValidateArtifactType("space")
	assert.ErrorIs(t, err, ErrInvalidArtifactType)
}
