// Package bootstrap wires configuration into gateways, the evaluator and the
// artifact store. Both the HTTP server and the CLI build on it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"model-scoring-service/internal/adapters/secondary/badger"
	"model-scoring-service/internal/adapters/secondary/gitclone"
	"model-scoring-service/internal/adapters/secondary/github"
	"model-scoring-service/internal/adapters/secondary/huggingface"
	"model-scoring-service/internal/adapters/secondary/linkcheck"
	"model-scoring-service/internal/adapters/secondary/llm"
	"model-scoring-service/internal/adapters/secondary/postgres"
	"model-scoring-service/internal/adapters/secondary/pysource"
	"model-scoring-service/internal/config"
	"model-scoring-service/internal/core/metrics"
	ports "model-scoring-service/internal/core/ports/output"
	"model-scoring-service/internal/core/services"
)

// Gateways builds every remote data gateway the metrics read from.
func Gateways(cfg *config.Config) (metrics.Deps, error) {
	fetcher, err := gitclone.NewGitFetcher(&cfg.Clone)
	if err != nil {
		return metrics.Deps{}, err
	}

	return metrics.Deps{
		Host:     github.NewGitHubClient(&cfg.GitHub),
		Hub:      huggingface.NewHubClient(&cfg.HuggingFace),
		LLM:      llm.NewLLMClient(&cfg.LLM),
		Links:    linkcheck.NewLinkChecker(cfg.Scoring.LinkTimeout),
		Fetcher:  fetcher,
		Analyzer: pysource.NewAnalyzer(&cfg.Analysis),
	}, nil
}

// Evaluator builds the evaluator over every metric.
func Evaluator(cfg *config.Config, deps metrics.Deps, observer ports.EvaluationObserver) *services.Evaluator {
	settings := metrics.Settings{
		RampUpMode:       cfg.Scoring.RampUpMode,
		SizeFloor:        cfg.Scoring.SizeFloor,
		JudgmentAttempts: cfg.Scoring.JudgmentAttempts,
	}
	return services.NewEvaluator(metrics.All(deps, settings), observer, services.EvaluatorOptions{
		MetricTimeout: cfg.Scoring.MetricTimeout,
		Concurrency:   cfg.Scoring.Concurrency,
	})
}

// Store is an opened artifact repository and the function that releases it.
type Store struct {
	Repo  ports.ArtifactRepository
	Ping  func(ctx context.Context) error
	Close func()
}

// OpenStore opens the artifact store selected by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		return openPostgres(ctx, &cfg.Database)
	case config.StoreDriverBadger:
		return openBadger(cfg.Store.Path)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func openPostgres(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("database connection established")

	return &Store{
		Repo:  postgres.NewArtifactRepository(pool),
		Ping:  pool.Ping,
		Close: pool.Close,
	}, nil
}

func openBadger(path string) (*Store, error) {
	db, err := badger.Open(path)
	if err != nil {
		return nil, err
	}
	repo, err := badger.NewArtifactRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if path == "" {
		log.Info("badger store running in memory")
	} else {
		log.WithField("path", path).Info("badger store opened")
	}

	return &Store{
		Repo: repo,
		Ping: func(context.Context) error {
			if db.IsClosed() {
				return fmt.Errorf("badger database closed")
			}
			return nil
		},
		Close: func() {
			if err := repo.Close(); err != nil {
				log.WithError(err).Warn("release artifact id lease")
			}
			if err := db.Close(); err != nil {
				log.WithError(err).Warn("close badger database")
			}
		},
	}, nil
}
