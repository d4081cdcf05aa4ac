// internal/matching/engine.go
package matching

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"assignment-workers/internal/common/logger"
	"assignment-workers/internal/matching/solver"
)

const maxLineBytes = 1 << 20

// Settings configures a scoring run. The same MaxVal is used regardless of
// strategy.
type Settings struct {
	Strategy    string
	MaxVal      int64
	ScaleFactor int64
}

// DefaultSettings returns the lapjv strategy with the standard ceiling and scale.
func DefaultSettings() Settings {
	return Settings{
		Strategy:    solver.DefaultStrategy,
		MaxVal:      DefaultMaxVal,
		ScaleFactor: DefaultScaleFactor,
	}
}

// Recorder receives per-line telemetry. observability.Observability satisfies it.
type Recorder interface {
	RecordLineScored(ctx context.Context, strategy, status string)
	RecordSolveDuration(ctx context.Context, duration time.Duration, strategy string)
}

type nopRecorder struct{}

func (nopRecorder) RecordLineScored(context.Context, string, string) {}
func (nopRecorder) RecordSolveDuration(context.Context, time.Duration, string) {}

// Result is the outcome of scoring one MatchInstance.
type Result struct {
	Score    float64 `json:"score"`
	Strategy string  `json:"strategy"`
	Pairs    []Pair  `json:"pairs"`
}

// Formatted renders the score with exactly two decimals.
func (r *Result) Formatted() string {
	return FormatScore(r.Score)
}

func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// Engine runs the parse -> build -> solve -> aggregate pipeline. It holds no
// per-line state and is safe for concurrent use.
type Engine struct {
	settings Settings
	solver   solver.Solver
	builder  *MatrixBuilder
	logger   logger.Logger
	recorder Recorder
}

type Option func(*Engine)

func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithSolver overrides the solver chosen from Settings.Strategy.
func WithSolver(s solver.Solver) Option {
	return func(e *Engine) {
		if s != nil {
			e.solver = s
		}
	}
}

func NewEngine(settings Settings, log logger.Logger, opts ...Option) (*Engine, error) {
	if settings.MaxVal <= 0 {
		return nil, fmt.Errorf("max_val must be positive, got %d", settings.MaxVal)
	}
	if settings.ScaleFactor <= 0 {
		return nil, fmt.Errorf("scale_factor must be positive, got %d", settings.ScaleFactor)
	}

	e := &Engine{
		settings: settings,
		builder:  NewMatrixBuilder(settings.ScaleFactor, settings.MaxVal),
		logger:   log,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.solver == nil {
		s, err := solver.New(settings.Strategy)
		if err != nil {
			return nil, err
		}
		e.solver = s
	}
	if e.logger == nil {
		e.logger = logger.NewNoOpLogger()
	}
	e.logger = e.logger.WithFields(map[string]interface{}{"strategy": e.solver.Name()})

	return e, nil
}

func (e *Engine) Strategy() string { return e.solver.Name() }

func (e *Engine) Settings() Settings { return e.settings }

// ScoreLine parses and scores a single raw line.
func (e *Engine) ScoreLine(ctx context.Context, lineNumber int, line string) (*Result, error) {
	inst, err := ParseLine(lineNumber, line)
	if err != nil {
		e.recorder.RecordLineScored(ctx, e.solver.Name(), "malformed")
		return nil, err
	}
	return e.Score(ctx, inst)
}

// Score solves inst and aggregates the matched similarities.
func (e *Engine) Score(ctx context.Context, inst *MatchInstance) (*Result, error) {
	strategy := e.solver.Name()

	cost, err := e.builder.Build(inst, e.solver.RequiresSquare())
	if err != nil {
		e.recorder.RecordLineScored(ctx, strategy, "overflow")
		return nil, err
	}

	start := time.Now()
	assignment, err := e.solver.Solve(cost)
	e.recorder.RecordSolveDuration(ctx, time.Since(start), strategy)
	if err != nil {
		e.recorder.RecordLineScored(ctx, strategy, "solve_failed")
		return nil, fmt.Errorf("solve %dx%d cost matrix: %w", cost.Rows(), cost.Cols(), err)
	}

	result := &Result{
		Score:    Aggregate(assignment, cost, e.settings.MaxVal, e.settings.ScaleFactor),
		Strategy: strategy,
		Pairs:    matchedPairs(inst, assignment, cost, e.settings.MaxVal),
	}

	e.recorder.RecordLineScored(ctx, strategy, "ok")
	e.logger.Debug("line scored", map[string]interface{}{
		"customers": len(inst.Customers),
		"products":  len(inst.Products),
		"rows":      cost.Rows(),
		"cols":      cost.Cols(),
		"score":     result.Score,
	})

	return result, nil
}

// ScoreReader scores r line by line, in order, calling emit after each line.
// The first error stops the run; lines already emitted stay emitted. Blank
// lines are skipped.
func (e *Engine) ScoreReader(ctx context.Context, r io.Reader, emit func(lineNumber int, res *Result) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNumber := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNumber++

		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			e.logger.Debug("skipping blank line", map[string]interface{}{"line": lineNumber})
			continue
		}

		res, err := e.ScoreLine(ctx, lineNumber, line)
		if err != nil {
			return err
		}
		if err := emit(lineNumber, res); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
