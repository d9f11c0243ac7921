package prometheus

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const namespace = "model_scoring"

type observer struct {
	metricLatency     *prometheus.HistogramVec
	metricFailures    *prometheus.CounterVec
	evaluationLatency prometheus.Histogram
	evaluations       *prometheus.CounterVec
	netScore          prometheus.Histogram
}

// NewObserver registers the evaluation collectors on reg.
func NewObserver(reg prometheus.Registerer) ports.EvaluationObserver {
	factory := promauto.With(reg)

	return &observer{
		metricLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "metric",
			Name:      "latency_seconds",
			Help:      "Time taken to compute one metric",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"metric"}),
		metricFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metric",
			Name:      "failures_total",
			Help:      "Metric computations that fell back or failed, by reason",
		}, []string{"metric", "reason"}),
		evaluationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "evaluation",
			Name:      "latency_seconds",
			Help:      "Wall-clock time of a full model evaluation",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evaluation",
			Name:      "total",
			Help:      "Model evaluations by status",
		}, []string{"status"}),
		netScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "evaluation",
			Name:      "net_score",
			Help:      "Distribution of net scores",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}
}

func (o *observer) ObserveMetric(metric string, latency time.Duration, err error) {
	o.metricLatency.WithLabelValues(metric).Observe(latency.Seconds())
	if err != nil {
		o.metricFailures.WithLabelValues(metric, failureReason(err)).Inc()
	}
}

func (o *observer) ObserveEvaluation(netScore float64, latency time.Duration, err error) {
	o.evaluationLatency.Observe(latency.Seconds())
	if err != nil {
		o.evaluations.WithLabelValues("error").Inc()
		return
	}
	o.evaluations.WithLabelValues("ok").Inc()
	o.netScore.Observe(netScore)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoLink):
		return "no_link"
	case errors.Is(err, domain.ErrUnsupported):
		return "unsupported"
	case errors.Is(err, domain.ErrParseFailure):
		return "parse_failure"
	case errors.Is(err, domain.ErrMetricComputation):
		return "computation"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
