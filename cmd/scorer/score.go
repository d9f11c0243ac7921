package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"model-scoring-service/internal/bootstrap"
	"model-scoring-service/internal/config"
	"model-scoring-service/internal/core/domain"
	"model-scoring-service/internal/core/services"
)

var (
	errNoModels      = errors.New("no models found in manifest")
	errScoringFailed = errors.New("one or more models could not be scored")
)

var scoreCmd = &cobra.Command{
	Use:   "score URL_FILE",
	Short: "Score every model listed in a manifest",
	Long: `Score reads URL_FILE, one model per line as "code_url, dataset_url, model_url"
(either of the first two may be empty), and prints one JSON score record per
model. URL_FILE may also be a zip archive of such files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		closeLog, err := initLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		manifest, err := readManifest(args[0])
		if err != nil {
			return err
		}

		deps, err := bootstrap.Gateways(cfg)
		if err != nil {
			return err
		}
		evaluator := bootstrap.Evaluator(cfg, deps, nil)
		parser := services.NewManifestParser(deps.LLM)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return scoreManifest(ctx, manifest, parser, evaluator, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

type batchEvaluator interface {
	EvaluateAll(ctx context.Context, models []*domain.Model) []services.Outcome
}

// scoreManifest prints a record for each model that scored and reports the rest on errOut.
func scoreManifest(ctx context.Context, manifest io.Reader, parser *services.ManifestParser, evaluator batchEvaluator, out, errOut io.Writer) error {
	models, datasets, err := parser.Parse(ctx, manifest)
	if err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	if len(models) == 0 {
		return errNoModels
	}
	log.WithFields(log.Fields{"models": len(models), "datasets": len(datasets)}).Info("manifest parsed")

	enc := json.NewEncoder(out)
	failed := 0
	for _, outcome := range evaluator.EvaluateAll(ctx, models) {
		if outcome.Err != nil {
			failed++
			log.WithError(outcome.Err).WithField("model", outcome.Model.URL).Error("model evaluation failed")
			fmt.Fprintf(errOut, "%s: %v\n", outcome.Model.URL, outcome.Err)
			continue
		}
		if err := enc.Encode(outcome.Record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errScoringFailed, failed, len(models))
	}
	return nil
}

// readManifest returns the manifest at path. The text files of a zip archive are
// concatenated in archive order.
func readManifest(path string) (io.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return bytes.NewReader(data), nil
	}

	var buf bytes.Buffer
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in %s: %w", f.Name, path, err)
		}
		_, err = io.Copy(&buf, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s in %s: %w", f.Name, path, err)
		}
		buf.WriteByte('\n')
	}
	log.WithField("entries", len(zr.File)).Info("manifest read from zip archive")
	return &buf, nil
}
