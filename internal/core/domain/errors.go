package domain

import "errors"

// ============================================================================
// Signal Errors
// ============================================================================

// Remote signal errors. Metrics absorb these and report their fallback value.
var (
	ErrUnavailable  = errors.New("remote signal unavailable")
	ErrParseFailure = errors.New("unparsable judgment reply")
	ErrUnsupported  = errors.New("artifact not supported by metric")
	ErrNoLink       = errors.New("no linked artifact")
)

// ErrMetricComputation is the only metric error allowed to escape an evaluation.
var ErrMetricComputation = errors.New("metric computation failed")

// ============================================================================
// Entity Errors
// ============================================================================

var (
	ErrModelEvaluated    = errors.New("model has already been evaluated")
	ErrInvalidModelURL   = errors.New("url is not a model reference")
	ErrInvalidCodeURL    = errors.New("url is not a code repository reference")
	ErrInvalidDatasetURL = errors.New("url is not a dataset reference")
)

// ============================================================================
// Artifact Store Errors
// ============================================================================

var (
	ErrArtifactNotFound    = errors.New("artifact not found")
	ErrInvalidArtifactType = errors.New("artifact type must be one of model, dataset, code")
	ErrInvalidArtifactID   = errors.New("artifact id must be a positive integer")
	ErrMissingArtifactURL  = errors.New("artifact url is required")
)
