package github

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"model-scoring-service/internal/config"
	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const contributorsPerPage = 100

type githubClient struct {
	baseURL        string
	token          string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     uint
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewGitHubClient creates a RepositoryHost backed by the GitHub REST API.
func NewGitHubClient(cfg *config.GitHubConfig) ports.RepositoryHost {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = 3
	}

	return &githubClient{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.Token,
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(limit, 1),
		maxRetries:     retries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
	}
}

func (c *githubClient) Contributors(ctx context.Context, owner, repo string) ([]ports.Contributor, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contributors?per_page=%d&anon=1",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), contributorsPerPage)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.MaxInterval = c.maxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0

	contributors, err := backoff.Retry(ctx, func() ([]ports.Contributor, error) {
		return c.fetchContributors(ctx, endpoint)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxRetries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.WithFields(log.Fields{"owner": owner, "repo": repo, "retry_in": next}).
				WithError(err).Warn("github request failed, retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: contributors of %s/%s: %v", domain.ErrUnavailable, owner, repo, err)
	}
	return contributors, nil
}

func (c *githubClient) fetchContributors(ctx context.Context, endpoint string) ([]ports.Contributor, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var contributors []ports.Contributor
		if err := json.NewDecoder(resp.Body).Decode(&contributors); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decode contributors: %w", err))
		}
		return contributors, nil
	case resp.StatusCode == http.StatusNoContent:
		return []ports.Contributor{}, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(fmt.Errorf("repository not found"))
	case isRateLimited(resp):
		wait := c.rateLimitWait(resp)
		log.WithField("wait", wait).Warn("github rate limit reached")
		return nil, backoff.RetryAfter(int(math.Ceil(wait.Seconds())))
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("github returned %d", resp.StatusCode)
	default:
		return nil, backoff.Permanent(fmt.Errorf("github returned %d", resp.StatusCode))
	}
}

func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// rateLimitWait reads Retry-After or X-RateLimit-Reset, capped at the maximum backoff.
func (c *githubClient) rateLimitWait(resp *http.Response) time.Duration {
	var wait time.Duration
	if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
		wait = time.Duration(s) * time.Second
	} else if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		wait = time.Until(time.Unix(reset, 0))
	}
	if wait < 0 {
		wait = 0
	}
	if c.maxBackoff > 0 && wait > c.maxBackoff {
		wait = c.maxBackoff
	}
	return wait
}
