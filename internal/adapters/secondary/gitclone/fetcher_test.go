package gitclone

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-scoring-service/internal/config"
	"model-scoring-service/internal/core/domain"
)

func newTestFetcher(t *testing.T) *gitFetcher {
	t.Helper()
	f, err := NewGitFetcher(&config.CloneConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	return f.(*gitFetcher)
}

func TestCloneDir_IsStablePerURL(t *testing.T) {
	f := newTestFetcher(t)

	a, err := f.cloneDir("https://github.com/google-research/bert")
	require.NoError(t, err)
	b, err := f.cloneDir("https://github.com/google-research/bert")
	require.NoError(t, err)
	c, err := f.cloneDir("https://github.com/huggingface/bert")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(filepath.Base(a), "bert-"))
}

func TestFetch_ReusesExistingClone(t *testing.T) {
	f := newTestFetcher(t)
	f.git = "git-binary-that-does-not-exist"

	dir, err := f.cloneDir("https://github.com/google-research/bert")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	got, err := f.Fetch(context.Background(), "https://github.com/google-research/bert")

	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestFetch_CloneFailure(t *testing.T) {
	f := newTestFetcher(t)
	f.git = "git-binary-that-does-not-exist"

	_, err := f.Fetch(context.Background(), "https://github.com/acme/missing")

	assert.ErrorIs(t, err, domain.ErrUnavailable)
	dir, _ := f.cloneDir("https://github.com/acme/missing")
	assert.NoDirExists(t, dir)
}
