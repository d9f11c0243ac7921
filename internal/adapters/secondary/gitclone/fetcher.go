package gitclone

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/minio/highwayhash"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"model-scoring-service/internal/config"
	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type gitFetcher struct {
	root    string
	git     string
	timeout time.Duration
	group   singleflight.Group
}

// NewGitFetcher creates a RepositoryFetcher that keeps shallow clones under cfg.Dir.
// An existing clone is reused.
func NewGitFetcher(cfg *config.CloneConfig) (ports.RepositoryFetcher, error) {
	root := cfg.Dir
	if root == "" {
		root = filepath.Join(os.TempDir(), "model-scoring-clones")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create clone dir: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &gitFetcher{root: root, git: "git", timeout: timeout}, nil
}

func (f *gitFetcher) Fetch(ctx context.Context, url string) (string, error) {
	dir, err := f.cloneDir(url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	v, err, _ := f.group.Do(dir, func() (interface{}, error) {
		if isClone(dir) {
			log.WithField("dir", dir).Debug("reusing existing clone")
			return dir, nil
		}
		return dir, f.clone(ctx, url, dir)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *gitFetcher) clone(ctx context.Context, url, dir string) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, f.git, "clone", "--depth", "1", "--quiet", url, dir)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(dir)
		log.WithError(err).WithField("url", url).Warnf("git clone failed: %s", out)
		return fmt.Errorf("%w: clone %s: %v", domain.ErrUnavailable, url, err)
	}

	log.WithFields(log.Fields{"url": url, "dir": dir, "duration": time.Since(start)}).Info("repository cloned")
	return nil
}

// cloneDir names the clone directory after the repository plus a hash of its URL.
func (f *gitFetcher) cloneDir(url string) (string, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return "", err
	}
	if _, err := h.Write([]byte(url)); err != nil {
		return "", err
	}

	name := unsafeName.ReplaceAllString(domain.Classify(url).Name, "_")
	if name == "" {
		name = "repo"
	}
	return filepath.Join(f.root, fmt.Sprintf("%s-%016x", name, h.Sum64())), nil
}

func isClone(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}
