package anyangle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/pdrpinto/anyangle/grid"
)

// BatchTask is one problem in a batch. An empty Algorithm uses the batch's
// algorithm.
type BatchTask struct {
	Start     grid.Point
	Goal      grid.Point
	Algorithm Algorithm
}

// BatchResult pairs a task with its outcome. Err holds the task's own
// failure, including ErrNoPath.
type BatchResult struct {
	Task   BatchTask
	Result Result
	Err    error
}

// SearchBatch runs every task on g using up to NumberOfWorkers goroutines.
// Each worker owns a SearchContext, so searches on one worker share scratch
// memory and the cached visibility graph; a context passed with
// WithSearchContext is ignored. Results are returned in task order.
//
// Task failures are reported per result. SearchBatch itself only fails
// when ctx is cancelled before every task has run.
func SearchBatch(
	ctx context.Context,
	g *grid.Grid,
	tasks []BatchTask,
	options ...Option,
) ([]BatchResult, error) {
	batchOptions := applyOptions(options)
	workers := batchOptions.NumberOfWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = max(len(tasks), 1)
	}

	ctx, span := tracer.Start(ctx, "anyangle.SearchBatch",
		trace.WithAttributes(
			attribute.Int("anyangle.batch.tasks", len(tasks)),
			attribute.Int("anyangle.batch.workers", workers),
		),
	)
	defer span.End()

	contexts := make(chan *SearchContext, workers)
	for i := 0; i < workers; i++ {
		contexts <- NewSearchContext()
	}

	results := make([]BatchResult, len(tasks))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, task := range tasks {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			sc := <-contexts
			defer func() { contexts <- sc }()

			taskOptions := append([]Option{}, options...)
			taskOptions = append(taskOptions, WithSearchContext(sc))
			if task.Algorithm != "" {
				taskOptions = append(taskOptions, WithAlgorithm(task.Algorithm))
			}
			result, err := Search(egCtx, g, task.Start, task.Goal, taskOptions...)
			results[i] = BatchResult{Task: task, Result: result, Err: err}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch interrupted")
		return results, fmt.Errorf("search batch: %w", err)
	}

	found := 0
	for _, r := range results {
		if r.Result.Found {
			found++
		}
	}
	span.SetAttributes(attribute.Int("anyangle.batch.found", found))
	batchOptions.Logger.Info("search batch finished",
		slog.Int("tasks", len(tasks)),
		slog.Int("found", found),
		slog.Int("workers", workers),
	)
	return results, nil
}
