// Package engine wraps the comparison core with the operational concerns of
// a long-lived embedding: structured logging, request metrics and optional
// human-readable model labels supplied by the orchestrator.
package engine

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tabularops/modeldiff/pkg/comparison"
	"github.com/tabularops/modeldiff/pkg/tabularmodel"
)

// Labels override the resolved model display names in the summary. Empty
// labels leave the resolved names in place.
type Labels struct {
	Model1 string
	Model2 string
}

// Options configures an Engine.
type Options struct {
	Comparison comparison.Options
	Labels     Labels
	// LogWriter receives structured log output; nil disables logging.
	LogWriter io.Writer
}

// Engine runs model comparisons. It is safe for concurrent use: the
// underlying comparator is stateless and the counters are atomic.
type Engine struct {
	comparator *comparison.Comparator
	logger     zerolog.Logger
	labels     Labels

	metrics struct {
		requestsProcessed int64
		ongoingOperations int32
	}
}

// New creates an engine.
func New(opts Options) *Engine {
	writer := opts.LogWriter
	if writer == nil {
		writer = io.Discard
	}
	return &Engine{
		comparator: comparison.NewComparatorWithOptions(opts.Comparison),
		logger:     zerolog.New(writer).With().Timestamp().Logger(),
		labels:     opts.Labels,
	}
}

// Compare produces the change-set between two models, applying the engine's
// labels to the summary names. Nil models count as empty models.
func (e *Engine) Compare(model1, model2 *tabularmodel.Model) *comparison.DiffResult {
	e.trackOperation()
	defer e.untrackOperation()

	start := time.Now()
	result := e.comparator.CompareModels(model1, model2)

	if e.labels.Model1 != "" {
		result.Summary.Model1Name = e.labels.Model1
	}
	if e.labels.Model2 != "" {
		result.Summary.Model2Name = e.labels.Model2
	}

	e.logger.Info().
		Str("model1", result.Summary.Model1Name).
		Str("model2", result.Summary.Model2Name).
		Int("totalChanges", result.Summary.TotalChanges).
		Dur("elapsed", time.Since(start)).
		Msg("model comparison completed")

	return result
}

// GetMetrics returns a snapshot of the engine counters.
func (e *Engine) GetMetrics() map[string]int64 {
	return map[string]int64{
		"requests_processed": atomic.LoadInt64(&e.metrics.requestsProcessed),
		"ongoing_operations": int64(atomic.LoadInt32(&e.metrics.ongoingOperations)),
	}
}

func (e *Engine) trackOperation() {
	atomic.AddInt32(&e.metrics.ongoingOperations, 1)
	atomic.AddInt64(&e.metrics.requestsProcessed, 1)
}

func (e *Engine) untrackOperation() {
	atomic.AddInt32(&e.metrics.ongoingOperations, -1)
}
