package linkcheck

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	ports "model-scoring-service/internal/core/ports/output"
)

type headChecker struct {
	client *http.Client
}

const maxRedirects = 10

// NewLinkChecker creates a LinkChecker that sends HEAD requests, follows up to
// maxRedirects redirects and accepts a final 200, 301 or 302.
func NewLinkChecker(timeout time.Duration) ports.LinkChecker {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &headChecker{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

func (c *headChecker) Reachable(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		log.WithError(err).WithField("url", url).Debug("link unreachable")
		return false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusMovedPermanently, http.StatusFound:
		return true
	}
	return false
}
