package anyangle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pdrpinto/anyangle/analysis"
	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal/search"
)

var (
	// ErrNoPath is returned alongside a Result whose goal was not reached.
	ErrNoPath = errors.New("no path found")

	// ErrUnknownAlgorithm is returned for an algorithm name that is not
	// supported.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrInvalidRequest is returned when the grid, start or goal fail
	// validation.
	ErrInvalidRequest = errors.New("invalid search request")

	// ErrContextInUse is returned when a SearchContext is already running
	// another search.
	ErrContextInUse = search.ErrContextInUse

	// ErrInternal wraps an internal consistency failure raised while a
	// search was running.
	ErrInternal = errors.New("internal search failure")
)

var tracer = otel.Tracer("anyangle")

var validate = validator.New()

// Result contains the outcome of a search.
type Result struct {
	Path          []grid.Point
	TotalCost     float64
	ExpandedNodes int
	Found         bool
	RunID         string
	Duration      time.Duration
}

// Options defines parameters for the search.
type Options struct {
	Algorithm  Algorithm
	Context    *SearchContext
	Recorder   Recorder
	DepthLimit int
	Logger     *slog.Logger

	// NumberOfWorkers bounds the parallelism of SearchBatch.
	NumberOfWorkers int
}

// Option is a function that modifies Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Algorithm:       DefaultAlgorithm(),
		DepthLimit:      -1,
		Logger:          slog.Default().With(slog.String("component", "anyangle")),
		NumberOfWorkers: runtime.NumCPU(),
	}
}

func applyOptions(options []Option) Options {
	searchOptions := defaultOptions()
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = slog.New(slog.DiscardHandler)
	}
	return searchOptions
}

// WithAlgorithm selects the search strategy.
func WithAlgorithm(a Algorithm) Option {
	return func(options *Options) { options.Algorithm = a }
}

// WithSearchContext runs the search on sc, reusing its scratch memory and
// cached visibility graph.
func WithSearchContext(sc *SearchContext) Option {
	return func(options *Options) { options.Context = sc }
}

// WithRecorder attaches a recorder that is offered snapshots while the
// search runs.
func WithRecorder(r Recorder) Option {
	return func(options *Options) { options.Recorder = r }
}

// WithDepthLimit bounds how far recursive strict Theta* searches back along
// the parent chain. Negative means unbounded.
func WithDepthLimit(depth int) Option {
	return func(options *Options) { options.DepthLimit = depth }
}

// WithLogger replaces the default component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithWorkers specifies how many goroutines SearchBatch runs searches on.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// request is the validated shape of a search call.
type request struct {
	Width  int `validate:"gt=0"`
	Height int `validate:"gt=0"`
	StartX int `validate:"gte=0,ltefield=Width"`
	StartY int `validate:"gte=0,ltefield=Height"`
	GoalX  int `validate:"gte=0,ltefield=Width"`
	GoalY  int `validate:"gte=0,ltefield=Height"`
}

func validateRequest(g *grid.Grid, start, goal grid.Point, a Algorithm) error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidRequest)
	}
	if !a.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
	}
	req := request{
		Width:  g.Width(),
		Height: g.Height(),
		StartX: start.X,
		StartY: start.Y,
		GoalX:  goal.X,
		GoalY:  goal.Y,
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// Search finds a path from start to goal on g. Start and goal are grid
// vertices, so valid coordinates run from 0 to the grid's width and height
// inclusive. An unreachable goal yields Found == false and ErrNoPath.
func Search(
	contextObject context.Context,
	g *grid.Grid,
	start grid.Point,
	goal grid.Point,
	options ...Option,
) (Result, error) {
	searchOptions := applyOptions(options)
	runID := uuid.NewString()
	logger := searchOptions.Logger.With(
		slog.String("run_id", runID),
		slog.String("algorithm", string(searchOptions.Algorithm)),
	)

	contextObject, span := tracer.Start(contextObject, "anyangle.Search",
		trace.WithAttributes(
			attribute.String("anyangle.algorithm", string(searchOptions.Algorithm)),
			attribute.String("anyangle.run_id", runID),
			attribute.String("anyangle.start", start.String()),
			attribute.String("anyangle.goal", goal.String()),
		),
	)
	defer span.End()

	fail := func(err error, outcome string) (Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		recordSearch(contextObject, searchOptions.Algorithm, outcome, 0, 0)
		return Result{RunID: runID}, err
	}

	if err := validateRequest(g, start, goal, searchOptions.Algorithm); err != nil {
		logger.Warn("rejected search request", slog.String("error", err.Error()))
		return fail(err, outcomeInvalid)
	}
	if err := contextObject.Err(); err != nil {
		return fail(err, outcomeCancelled)
	}
	span.SetAttributes(
		attribute.Int("anyangle.grid.width", g.Width()),
		attribute.Int("anyangle.grid.height", g.Height()),
	)

	searchContext := searchOptions.Context
	if searchContext == nil {
		searchContext = NewSearchContext()
	}
	if err := searchContext.inner.Acquire(); err != nil {
		return fail(err, outcomeBusy)
	}
	defer searchContext.inner.Release()

	problem := search.Problem{Grid: g, Start: start, Goal: goal}
	config := search.Config{Context: searchContext.inner, Recorder: searchOptions.Recorder}
	algorithm, err := newAlgorithm(searchOptions.Algorithm, problem, config, searchOptions)
	if err != nil {
		return fail(err, outcomeInvalid)
	}

	logger.Debug("search started",
		slog.String("start", start.String()),
		slog.String("goal", goal.String()),
	)
	started := time.Now()
	path, expanded, err := compute(algorithm)
	duration := time.Since(started)
	if err != nil {
		logger.Error("search aborted", slog.String("error", err.Error()))
		return fail(err, outcomeError)
	}

	result := Result{
		Path:          path,
		ExpandedNodes: expanded,
		Found:         path != nil,
		RunID:         runID,
		Duration:      duration,
	}
	span.SetAttributes(
		attribute.Int("anyangle.expanded", expanded),
		attribute.Bool("anyangle.found", result.Found),
	)

	if !result.Found {
		logger.Warn("no path found",
			slog.Int("expanded", expanded),
			slog.Duration("duration", duration),
		)
		span.SetStatus(codes.Error, outcomeNoPath)
		recordSearch(contextObject, searchOptions.Algorithm, outcomeNoPath, duration, expanded)
		return result, ErrNoPath
	}

	result.TotalCost = analysis.PathLength(path)
	logger.Info("search finished",
		slog.Int("expanded", expanded),
		slog.Float64("length", result.TotalCost),
		slog.Duration("duration", duration),
	)
	span.SetAttributes(attribute.Float64("anyangle.length", result.TotalCost))
	span.SetStatus(codes.Ok, "")
	recordSearch(contextObject, searchOptions.Algorithm, outcomeFound, duration, expanded)
	return result, nil
}

// compute runs the search, turning internal consistency panics into
// errors.
func compute(algorithm search.Algorithm) (path []grid.Point, expanded int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrInternal, e)
			} else {
				err = fmt.Errorf("%w: %v", ErrInternal, r)
			}
		}
	}()
	algorithm.ComputePath()
	return algorithm.Path(), algorithm.Expanded(), nil
}
