package huggingface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-scoring-service/internal/config"
	"model-scoring-service/internal/core/domain"
)

const bertCard = "---\nlanguage: en\nlicense: apache-2.0\ntags:\n- exbert\n---\n\n# BERT base model (uncased)\n\nPretrained model on English language.\n"

func newHubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/models/google-bert/bert-base-uncased", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("blobs"))
		_, _ = w.Write([]byte(`{
			"id": "google-bert/bert-base-uncased",
			"downloads": 51000000,
			"likes": 2100,
			"lastModified": "2024-02-19T11:06:12.000Z",
			"pipeline_tag": "fill-mask",
			"tags": ["transformers", "license:apache-2.0"],
			"cardData": {"license": ["apache-2.0", "mit"]},
			"safetensors": {"total": 110106428},
			"siblings": [{"rfilename": "model.safetensors", "size": 440449768}, {"rfilename": "README.md", "size": 10000}]
		}`))
	})
	mux.HandleFunc("/api/models/acme/bare", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "acme/bare", "usedStorage": 1234}`))
	})
	mux.HandleFunc("/acme/bare/raw/main/README.md", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("---\nlicense: mit\n---\nBare model.\n"))
	})
	mux.HandleFunc("/google-bert/bert-base-uncased/raw/main/README.md", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bertCard))
	})
	mux.HandleFunc("/api/datasets/bookcorpus/bookcorpus", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "bookcorpus/bookcorpus", "downloads": 12000, "likes": 50, "cardData": {"license": "unknown"}}`))
	})
	mux.HandleFunc("/datasets/bookcorpus/bookcorpus/raw/main/README.md", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# BookCorpus\n\nBooks.\n"))
	})
	return httptest.NewServer(mux)
}

func newTestHub(url string) *hubClient {
	return NewHubClient(&config.HuggingFaceConfig{BaseURL: url, Timeout: time.Second}).(*hubClient)
}

func TestModelInfo(t *testing.T) {
	srv := newHubServer(t)
	defer srv.Close()

	info, err := newTestHub(srv.URL).ModelInfo(context.Background(), "google-bert/bert-base-uncased")

	require.NoError(t, err)
	assert.Equal(t, int64(51000000), info.Downloads)
	assert.Equal(t, int64(2100), info.Likes)
	require.NotNil(t, info.LastModified)
	assert.Equal(t, 2024, info.LastModified.Year())
	assert.Equal(t, "fill-mask", info.PipelineTag)
	assert.Equal(t, "apache-2.0, mit", info.License)
	assert.Equal(t, int64(110106428), info.Parameters)
	assert.Equal(t, int64(440459768), info.TotalBytes)
	assert.True(t, info.HasCardData)
}

func TestModelInfo_FallsBackToCardFrontMatter(t *testing.T) {
	srv := newHubServer(t)
	defer srv.Close()

	info, err := newTestHub(srv.URL).ModelInfo(context.Background(), "acme/bare")

	require.NoError(t, err)
	assert.Equal(t, "mit", info.License)
	assert.Equal(t, int64(1234), info.TotalBytes)
	assert.False(t, info.HasCardData)
}

func TestModelInfo_NotFound(t *testing.T) {
	srv := newHubServer(t)
	defer srv.Close()

	info, err := newTestHub(srv.URL).ModelInfo(context.Background(), "acme/missing")

	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.True(t, info.Empty())
}

func TestModelCard_StripsFrontMatter(t *testing.T) {
	srv := newHubServer(t)
	defer srv.Close()

	card, err := newTestHub(srv.URL).ModelCard(context.Background(), "google-bert/bert-base-uncased")

	require.NoError(t, err)
	assert.Equal(t, "# BERT base model (uncased)\n\nPretrained model on English language.\n", card)
}

func TestDatasetInfoAndCard(t *testing.T) {
	srv := newHubServer(t)
	defer srv.Close()
	hub := newTestHub(srv.URL)

	info, err := hub.DatasetInfo(context.Background(), "bookcorpus/bookcorpus")
	require.NoError(t, err)
	assert.Equal(t, "unknown", info.License)
	assert.Equal(t, int64(12000), info.Downloads)

	card, err := hub.DatasetCard(context.Background(), "bookcorpus/bookcorpus")
	require.NoError(t, err)
	assert.Contains(t, card, "BookCorpus")
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name        string
		card        string
		wantLicense string
		wantBody    string
	}{
		{name: "no front matter", card: "# Title\n", wantBody: "# Title\n"},
		{name: "list license", card: "---\nlicense:\n- mit\n- cc-by-4.0\n---\nBody\n", wantLicense: "mit, cc-by-4.0", wantBody: "Body\n"},
		{name: "unterminated", card: "---\nlicense: mit\n", wantBody: "---\nlicense: mit\n"},
		{name: "crlf", card: "---\r\nlicense: mit\r\n---\r\nBody", wantLicense: "mit", wantBody: "Body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body := splitFrontMatter(tt.card)
			assert.Equal(t, tt.wantLicense, meta.License.String())
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
