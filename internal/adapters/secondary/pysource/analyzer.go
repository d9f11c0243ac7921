// Package pysource inspects Python source trees: lint counts through flake8 or
// tree-sitter syntax errors, and identifier sampling for naming review.
package pysource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"model-scoring-service/internal/config"
	ports "model-scoring-service/internal/core/ports/output"
)

const (
	maxIdentifiers = 200
	maxFileBytes   = 1 << 20
)

var excludedDirs = map[string]bool{
	"examples":      true,
	"tests":         true,
	"test":          true,
	"docs":          true,
	"__pycache__":   true,
	"build":         true,
	"dist":          true,
	"vendor":        true,
	"third_party":   true,
	"node_modules":  true,
	"venv":          true,
	"site-packages": true,
}

var flake8Args = []string{"--count", "--max-line-length=128", "--ignore=E501,W503,E203"}

type analyzer struct {
	flake8      string
	lintTimeout time.Duration
	maxLint     int
	maxScan     int
	namingFiles int
}

func NewAnalyzer(cfg *config.AnalysisConfig) ports.SourceAnalyzer {
	a := &analyzer{
		flake8:      cfg.Flake8Path,
		lintTimeout: cfg.LintTimeout,
		maxLint:     cfg.MaxLintFiles,
		maxScan:     cfg.MaxScanFiles,
		namingFiles: cfg.NamingFiles,
	}
	if a.lintTimeout == 0 {
		a.lintTimeout = 30 * time.Second
	}
	if a.maxLint <= 0 {
		a.maxLint = 25
	}
	if a.maxScan <= 0 {
		a.maxScan = 100
	}
	if a.namingFiles <= 0 {
		a.namingFiles = 10
	}
	return a
}

func (a *analyzer) Lint(ctx context.Context, dir string) (ports.LintReport, error) {
	files, err := a.sample(dir)
	if err != nil {
		return ports.LintReport{}, err
	}
	if len(files) > a.maxLint {
		files = files[:a.maxLint]
	}
	if len(files) == 0 {
		return ports.LintReport{}, nil
	}

	count, err := a.flake8Count(ctx, files)
	if err == nil {
		return ports.LintReport{Errors: count, FilesChecked: len(files)}, nil
	}
	log.WithError(err).Debug("flake8 unavailable, counting syntax errors")

	total := 0
	for _, f := range files {
		src, err := readSource(f)
		if err != nil {
			continue
		}
		n, err := SyntaxErrors(ctx, src)
		if err != nil {
			return ports.LintReport{}, err
		}
		total += n
	}
	return ports.LintReport{Errors: total, FilesChecked: len(files)}, nil
}

func (a *analyzer) Identifiers(ctx context.Context, dir string) ([]string, error) {
	files, err := a.sample(dir)
	if err != nil {
		return nil, err
	}
	if len(files) > a.namingFiles {
		files = files[:a.namingFiles]
	}

	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		src, err := readSource(f)
		if err != nil {
			continue
		}
		idents, err := Identifiers(ctx, src)
		if err != nil {
			return nil, err
		}
		for _, id := range idents {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
			if len(out) == maxIdentifiers {
				return out, nil
			}
		}
	}
	return out, nil
}

// sample lists up to maxScan Python files in lexical order, skipping hidden,
// test, docs, build and vendored directories.
func (a *analyzer) sample(dir string) ([]string, error) {
	var files []string
	errStop := errors.New("enough files")

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || excludedDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".py") {
			files = append(files, path)
			if len(files) >= a.maxScan {
				return errStop
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return files, nil
}

// flake8Count runs flake8 over files and returns the reported total.
func (a *analyzer) flake8Count(ctx context.Context, files []string) (int, error) {
	bin, err := exec.LookPath(a.flake8)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, a.lintTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, append(append([]string{}, flake8Args...), files...)...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	runErr := cmd.Run()

	// flake8 exits 1 when it reports findings
	var exitErr *exec.ExitError
	if runErr != nil && !(errors.As(runErr, &exitErr) && exitErr.ExitCode() == 1) {
		return 0, fmt.Errorf("flake8: %w", runErr)
	}
	return parseFlake8Count(stdout.String())
}

// parseFlake8Count reads the --count total from the last non-empty output line.
func parseFlake8Count(out string) (int, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(last)
	if err != nil {
		return 0, fmt.Errorf("unexpected flake8 output %q", last)
	}
	return n, nil
}

func readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFileBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, maxFileBytes)
	}
	return os.ReadFile(path)
}

func parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	return tree, nil
}
