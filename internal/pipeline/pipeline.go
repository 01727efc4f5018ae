// Package pipeline orchestrates the batch run: load both inputs, normalize
// the tree records down to cherry records, and fan the result out to the
// output sinks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"cherrymap/internal/domain"
	"cherrymap/internal/observability"
)

// TreeSource provides the raw tree inventory.
type TreeSource interface {
	Trees(ctx context.Context) ([]domain.TreeRecord, error)
}

// BoundarySource provides the neighborhood polygon collection.
type BoundarySource interface {
	Boundaries(ctx context.Context) (domain.BoundaryCollection, error)
}

// Sink consumes the cleaned record set and the boundary collection. Both
// arguments are read-only; sinks must not mutate them.
type Sink interface {
	Name() string
	Emit(ctx context.Context, records []domain.CherryRecord, boundaries domain.BoundaryCollection) error
}

// Pipeline runs one load → normalize → emit cycle.
type Pipeline struct {
	trees      TreeSource
	boundaries BoundarySource
	rules      []domain.CorrectionRule
	sinks      []Sink
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// New creates a Pipeline. Rules defaults to domain.DefaultCorrections when
// nil is passed.
func New(trees TreeSource, boundaries BoundarySource, rules []domain.CorrectionRule, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if rules == nil {
		rules = domain.DefaultCorrections
	}
	return &Pipeline{
		trees:      trees,
		boundaries: boundaries,
		rules:      rules,
		sinks:      sinks,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once the normalization pass has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("normalization has not completed yet")
	}
	return nil
}

// Run executes the batch once. A source failure aborts with no partial
// results. Sink failures do not stop the remaining sinks; they are joined
// into the returned error so the run still exits non-zero.
func (p *Pipeline) Run(ctx context.Context) error {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	rawTrees, err := p.trees.Trees(ctx)
	if err != nil {
		return fmt.Errorf("load trees: %w", err)
	}
	p.logger.Info("tree inventory loaded", "rows", len(rawTrees))

	boundaries, err := p.boundaries.Boundaries(ctx)
	if err != nil {
		return fmt.Errorf("load boundaries: %w", err)
	}
	p.logger.Info("boundaries loaded", "polygons", len(boundaries))

	records, stats := domain.Normalize(rawTrees, p.rules)
	p.recordStats(stats)
	p.ready.Store(true)

	if err := ctx.Err(); err != nil {
		return err
	}

	var sinkErrs []error
	for _, sink := range p.sinks {
		start := time.Now()
		if err := sink.Emit(ctx, records, boundaries); err != nil {
			p.logger.Error("sink failed", "sink", sink.Name(), "error", err)
			p.metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
			sinkErrs = append(sinkErrs, fmt.Errorf("%s sink: %w", sink.Name(), err))
			continue
		}
		p.metrics.SinkDuration.WithLabelValues(sink.Name()).Observe(time.Since(start).Seconds())
	}

	return errors.Join(sinkErrs...)
}

// recordStats logs the normalization diagnostic and exports it as metrics.
// The false-positive drop is deliberately surfaced here even though the
// record set itself behaves as if the row never matched.
func (p *Pipeline) recordStats(stats domain.Stats) {
	p.logger.Info("normalization complete",
		"rows_in", stats.RowsIn,
		"dropped_null", stats.DroppedNull,
		"cherry_matched", stats.Matched,
		"dropped_false_positive", stats.DroppedFalsePositive,
		"renamed", stats.Renamed,
		"records_out", stats.Out,
	)

	p.metrics.RowsLoaded.Add(float64(stats.RowsIn))
	p.metrics.RowsDroppedNull.Add(float64(stats.DroppedNull))
	p.metrics.CherryMatched.Add(float64(stats.Matched))
	p.metrics.FalsePositiveDrops.Add(float64(stats.DroppedFalsePositive))
	p.metrics.CultivarRenames.Add(float64(stats.Renamed))
	p.metrics.RecordsEmitted.Add(float64(stats.Out))
}
