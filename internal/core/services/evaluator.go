package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"model-scoring-service/internal/core/domain"
	"model-scoring-service/internal/core/metrics"
	ports "model-scoring-service/internal/core/ports/output"
)

type EvaluatorOptions struct {
	// MetricTimeout bounds each metric. Zero means no deadline.
	MetricTimeout time.Duration
	// Concurrency bounds how many models EvaluateAll scores at once.
	Concurrency int
}

// Evaluator runs every metric for a model concurrently and combines the results.
type Evaluator struct {
	metrics  []metrics.Metric
	observer ports.EvaluationObserver
	opts     EvaluatorOptions
}

func NewEvaluator(ms []metrics.Metric, observer ports.EvaluationObserver, opts EvaluatorOptions) *Evaluator {
	if observer == nil {
		observer = noopObserver{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	return &Evaluator{metrics: ms, observer: observer, opts: opts}
}

type metricResult struct {
	name    string
	value   domain.MetricValue
	latency time.Duration
}

// Evaluate scores m and returns its record. Metric failures are absorbed into their
// fallback values except domain.ErrMetricComputation, which leaves m unevaluated.
func (e *Evaluator) Evaluate(ctx context.Context, m *domain.Model) (domain.ScoreRecord, error) {
	if m.Evaluated() {
		return domain.ScoreRecord{}, domain.ErrModelEvaluated
	}

	start := time.Now()
	results := make([]metricResult, len(e.metrics))

	g, gctx := errgroup.WithContext(ctx)
	for i, metric := range e.metrics {
		g.Go(func() error {
			res, err := e.run(gctx, metric, m)
			results[i] = res
			if errors.Is(err, domain.ErrMetricComputation) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.observer.ObserveEvaluation(0, time.Since(start), err)
		log.WithError(err).WithField("model", m.ID).Error("evaluation failed")
		return domain.ScoreRecord{}, err
	}

	for _, res := range results {
		m.SetMetric(res.name, res.value, res.latency)
	}
	net := domain.NetScore(m.Metrics)
	elapsed := time.Since(start)
	m.Seal(net, elapsed)
	e.observer.ObserveEvaluation(net, elapsed, nil)

	log.WithFields(log.Fields{
		"model":      m.ID,
		"net_score":  net,
		"latency_ms": elapsed.Milliseconds(),
	}).Info("model evaluated")

	return m.Record(), nil
}

func (e *Evaluator) run(ctx context.Context, metric metrics.Metric, m *domain.Model) (res metricResult, err error) {
	res.name = metric.Name()
	if e.opts.MetricTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.MetricTimeout)
		defer cancel()
	}

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.value = domain.MetricValue{}
			err = fmt.Errorf("metric %s panicked: %v", res.name, r)
		}
		res.latency = time.Since(started)
		e.observer.ObserveMetric(res.name, res.latency, err)
		logMetricError(m.ID, res.name, err)
	}()

	res.value, err = metric.Compute(ctx, m)
	return res, err
}

func logMetricError(modelID, metric string, err error) {
	if err == nil {
		return
	}
	entry := log.WithFields(log.Fields{"model": modelID, "metric": metric}).WithError(err)
	switch {
	case errors.Is(err, domain.ErrMetricComputation):
		entry.Error("metric computation failed")
	case errors.Is(err, domain.ErrNoLink), errors.Is(err, domain.ErrUnsupported):
		entry.Debug("metric used its fallback value")
	default:
		entry.Warn("metric used its fallback value")
	}
}

// Outcome is the result of one model in a batch.
type Outcome struct {
	Model  *domain.Model
	Record domain.ScoreRecord
	Err    error
}

// EvaluateAll scores models concurrently. A failing model never stops the others.
func (e *Evaluator) EvaluateAll(ctx context.Context, models []*domain.Model) []Outcome {
	outcomes := make([]Outcome, len(models))

	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)
	for i, m := range models {
		g.Go(func() error {
			record, err := e.Evaluate(ctx, m)
			outcomes[i] = Outcome{Model: m, Record: record, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

type noopObserver struct{}

func (noopObserver) ObserveMetric(string, time.Duration, error)      {}
func (noopObserver) ObserveEvaluation(float64, time.Duration, error) {}
