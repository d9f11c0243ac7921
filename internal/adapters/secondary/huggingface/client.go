package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"model-scoring-service/internal/config"
	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const maxCardBytes = 1 << 20

type hubClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHubClient creates a ModelHub backed by the Hugging Face Hub API.
func NewHubClient(cfg *config.HuggingFaceConfig) ports.ModelHub {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &hubClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Hub API response structures
type modelResponse struct {
	ID           string     `json:"id"`
	Downloads    int64      `json:"downloads"`
	Likes        int64      `json:"likes"`
	LastModified *time.Time `json:"lastModified"`
	PipelineTag  string     `json:"pipeline_tag"`
	Tags         []string   `json:"tags"`
	CardData     *cardMeta  `json:"cardData"`
	Safetensors  *struct {
		Total int64 `json:"total"`
	} `json:"safetensors"`
	Siblings []struct {
		RFilename string `json:"rfilename"`
		Size      int64  `json:"size"`
	} `json:"siblings"`
	UsedStorage int64 `json:"usedStorage"`
}

type datasetResponse struct {
	ID           string     `json:"id"`
	Downloads    int64      `json:"downloads"`
	Likes        int64      `json:"likes"`
	LastModified *time.Time `json:"lastModified"`
	Tags         []string   `json:"tags"`
	CardData     *cardMeta  `json:"cardData"`
}

func (c *hubClient) ModelInfo(ctx context.Context, id string) (ports.ModelInfo, error) {
	var resp modelResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/models/%s?blobs=true", c.baseURL, id), &resp); err != nil {
		return ports.ModelInfo{}, err
	}

	info := ports.ModelInfo{
		ID:           resp.ID,
		Downloads:    resp.Downloads,
		Likes:        resp.Likes,
		LastModified: resp.LastModified,
		PipelineTag:  resp.PipelineTag,
		Tags:         resp.Tags,
		HasCardData:  resp.CardData != nil,
	}
	if resp.Safetensors != nil {
		info.Parameters = resp.Safetensors.Total
	}
	for _, s := range resp.Siblings {
		info.TotalBytes += s.Size
	}
	if info.TotalBytes == 0 {
		info.TotalBytes = resp.UsedStorage
	}

	if resp.CardData != nil {
		info.License = resp.CardData.License.String()
	}
	if info.License == "" {
		info.License = licenseFromTags(resp.Tags)
	}
	if info.License == "" {
		if raw, err := c.getText(ctx, c.modelCardURL(id)); err == nil {
			meta, _ := splitFrontMatter(raw)
			info.License = meta.License.String()
		}
	}
	return info, nil
}

func (c *hubClient) ModelCard(ctx context.Context, id string) (string, error) {
	raw, err := c.getText(ctx, c.modelCardURL(id))
	if err != nil {
		return "", err
	}
	_, body := splitFrontMatter(raw)
	return body, nil
}

func (c *hubClient) DatasetInfo(ctx context.Context, id string) (ports.DatasetInfo, error) {
	var resp datasetResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/datasets/%s", c.baseURL, id), &resp); err != nil {
		return ports.DatasetInfo{}, err
	}

	info := ports.DatasetInfo{
		ID:           resp.ID,
		Downloads:    resp.Downloads,
		Likes:        resp.Likes,
		LastModified: resp.LastModified,
		Tags:         resp.Tags,
	}
	if resp.CardData != nil {
		info.License = resp.CardData.License.String()
	}
	if info.License == "" {
		info.License = licenseFromTags(resp.Tags)
	}
	return info, nil
}

func (c *hubClient) DatasetCard(ctx context.Context, id string) (string, error) {
	raw, err := c.getText(ctx, fmt.Sprintf("%s/datasets/%s/raw/main/README.md", c.baseURL, id))
	if err != nil {
		return "", err
	}
	_, body := splitFrontMatter(raw)
	return body, nil
}

func (c *hubClient) modelCardURL(id string) string {
	return fmt.Sprintf("%s/%s/raw/main/README.md", c.baseURL, id)
}

func (c *hubClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.WithError(err).WithField("url", url).Debug("hub request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: hub returned %d for %s", domain.ErrUnavailable, resp.StatusCode, url)
	}
	return resp, nil
}

func (c *hubClient) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrUnavailable, url, err)
	}
	return nil
}

func (c *hubClient) getText(ctx context.Context, url string) (string, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCardBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrUnavailable, url, err)
	}
	return string(body), nil
}

func licenseFromTags(tags []string) string {
	for _, t := range tags {
		if v, ok := strings.CutPrefix(t, "license:"); ok {
			return v
		}
	}
	return ""
}
