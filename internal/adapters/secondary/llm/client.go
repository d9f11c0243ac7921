package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"model-scoring-service/internal/config"
	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const systemPrompt = "You are a careful reviewer of machine learning artifacts. Follow the requested answer format exactly."

type llmClient struct {
	client         *openai.Client
	model          string
	enabled        bool
	maxRetries     uint
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewLLMClient creates an LLMClient for any OpenAI-compatible chat completions endpoint.
// Without an API key every completion fails with domain.ErrUnavailable.
func NewLLMClient(cfg *config.LLMConfig) ports.LLMClient {
	if cfg.APIKey == "" {
		log.Warn("no LLM API key configured, judgment based metrics will use fallbacks")
		return &llmClient{enabled: false}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = time.Minute
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	retries := cfg.MaxRetries
	if retries == 0 {
		retries = 3
	}

	return &llmClient{
		client:         openai.NewClientWithConfig(oc),
		model:          cfg.Model,
		enabled:        true,
		maxRetries:     retries,
		initialBackoff: time.Second,
		maxBackoff:     10 * time.Second,
	}
}

func (c *llmClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("%w: llm disabled", domain.ErrUnavailable)
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.MaxInterval = c.maxBackoff

	content, err := backoff.Retry(ctx, func() (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if retryable(err) {
				return "", err
			}
			return "", backoff.Permanent(err)
		}
		if len(resp.Choices) == 0 {
			return "", backoff.Permanent(errors.New("completion has no choices"))
		}
		return resp.Choices[0].Message.Content, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxRetries),
	)
	if err != nil {
		log.WithError(err).WithField("model", c.model).Warn("llm completion failed")
		return "", fmt.Errorf("%w: llm completion: %v", domain.ErrUnavailable, err)
	}
	return strings.TrimSpace(content), nil
}

func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
