package ports

import "time"

// EvaluationObserver receives timing and failure signals from the evaluator.
type EvaluationObserver interface {
	ObserveMetric(metric string, latency time.Duration, err error)
	ObserveEvaluation(netScore float64, latency time.Duration, err error)
}
