package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/game"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	defaultRows          = 10
	defaultCols          = 10
	defaultProgressEvery = 10
	instrumentScope      = "github.com/beka-birhanu/vinom-pathfinder/service"
)

var (
	ErrNoRunStore = errors.New("no run store configured")
)

// SolverOptions configures a Solver. Zero values pick the defaults of the
// game package.
type SolverOptions struct {
	Rows               int     // Maze rows when a request leaves them out
	Cols               int     // Maze columns when a request leaves them out
	Rollouts           int     // Rollouts per move when a request leaves them out
	MaxMoves           int     // Move limit when a request leaves it out, 0 means rows*cols
	ExplorationWeight  float64 // UCT exploration constant
	MaxSimulationSteps int     // Bound on one random simulation
	ProgressEvery      int     // Rollouts between two debug progress lines
}

// SolverDeps carries the optional collaborators of a Solver.
type SolverDeps struct {
	Runs        i.RunRepo     // Completed runs are saved here when set
	Leaderboard i.Leaderboard // Finished runs are ranked here when set
	Meter       metric.Meter  // No-op when nil
	Tracer      trace.Tracer  // No-op when nil
}

type solverMetrics struct {
	rollouts metric.Int64Counter
	moves    metric.Int64Counter
	duration metric.Float64Histogram
}

// Solver runs maze-solving sessions and records their outcome.
type Solver struct {
	runs        i.RunRepo
	leaderboard i.Leaderboard
	logger      i.Logger
	tracer      trace.Tracer
	metrics     *solverMetrics
	opts        *SolverOptions
}

// NewSolver creates a Solver writing to logger.
func NewSolver(logger i.Logger, deps SolverDeps, opts *SolverOptions) (*Solver, error) {
	if logger == nil {
		return nil, errors.New("solver: nil logger")
	}

	var o SolverOptions
	if opts != nil {
		o = *opts
	}
	if o.Rows <= 0 {
		o.Rows = defaultRows
	}
	if o.Cols <= 0 {
		o.Cols = defaultCols
	}
	if o.Rollouts <= 0 {
		o.Rollouts = game.DefaultRolloutsPerMove
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = defaultProgressEvery
	}

	meter := deps.Meter
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(instrumentScope)
	}
	metrics, err := newSolverMetrics(meter)
	if err != nil {
		return nil, err
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(instrumentScope)
	}

	return &Solver{
		runs:        deps.Runs,
		leaderboard: deps.Leaderboard,
		logger:      logger,
		tracer:      tracer,
		metrics:     metrics,
		opts:        &o,
	}, nil
}

func newSolverMetrics(meter metric.Meter) (*solverMetrics, error) {
	m := &solverMetrics{}
	var err error

	m.rollouts, err = meter.Int64Counter(
		"solver.rollouts",
		metric.WithDescription("Rollouts run by the search tree"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create rollouts counter: %w", err)
	}

	m.moves, err = meter.Int64Counter(
		"solver.moves",
		metric.WithDescription("Moves chosen by the agent"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create moves counter: %w", err)
	}

	m.duration, err = meter.Float64Histogram(
		"solver.duration",
		metric.WithDescription("Wall time of a whole session in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return m, nil
}

// Generate builds a rows x cols maze.
func (s *Solver) Generate(rows, cols int, seed int64) (*maze.Grid, int64, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	grid, err := maze.Generate(rows, cols, seed)
	if err != nil {
		s.logger.Warning("Maze generation failed",
			zap.Int("rows", rows), zap.Int("cols", cols), zap.Int64("seed", seed), zap.Error(err))
		return nil, seed, err
	}

	s.logger.Debug("Maze generated", zap.Int("rows", rows), zap.Int("cols", cols), zap.Int64("seed", seed))
	return grid, seed, nil
}

// Solve generates the requested maze and lets the agent walk it until it is
// stuck, reaches the exit, or runs out of moves. Running out of moves is not
// an error; the run is simply neither finished nor stuck.
func (s *Solver) Solve(ctx context.Context, req dmn.SolveRequest) (*dmn.Run, *maze.Grid, error) {
	req = s.withDefaults(req)

	ctx, span := s.tracer.Start(ctx, "solver.solve")
	defer span.End()

	grid, seed, err := s.Generate(req.Rows, req.Cols, req.Seed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate")
		return nil, nil, err
	}

	attrs := metric.WithAttributes(attribute.String("maze.size", fmt.Sprintf("%dx%d", req.Rows, req.Cols)))
	span.SetAttributes(
		attribute.Int("maze.rows", req.Rows),
		attribute.Int("maze.cols", req.Cols),
		attribute.Int64("maze.seed", seed),
		attribute.Int("solver.rollouts_per_move", req.Rollouts),
	)

	var session *game.Session
	session = game.NewSession(grid, &game.Options{
		ExplorationWeight:  s.opts.ExplorationWeight,
		MaxSimulationSteps: s.opts.MaxSimulationSteps,
		Rand:               rand.New(rand.NewSource(seed)),
		OnRollout: func(done, total int) {
			if done%s.opts.ProgressEvery == 0 || done == total {
				s.logger.Debug("Rollout progress",
					zap.Stringer("run", session.ID), zap.Int("move", session.Moves()+1),
					zap.Int("done", done), zap.Int("total", total))
			}
		},
	})

	s.logger.Info("Solving maze",
		zap.Stringer("run", session.ID), zap.Int("rows", req.Rows), zap.Int("cols", req.Cols), zap.Int64("seed", seed))

	started := time.Now()
	outcome, err := session.Solve(ctx, req.Rollouts, req.MaxMoves, func(next *game.AgentState) {
		s.metrics.rollouts.Add(ctx, int64(req.Rollouts), attrs)
		s.metrics.moves.Add(ctx, 1, attrs)
		s.logger.Debug("Agent moved", zap.Stringer("run", session.ID), zap.Stringer("to", next.Position()))
		if req.OnMove != nil {
			req.OnMove(grid, next.Position())
		}
	})
	elapsed := time.Since(started)
	s.metrics.duration.Record(ctx, float64(elapsed.Milliseconds()), attrs)

	if err != nil && !errors.Is(err, game.ErrMoveLimitReached) {
		s.logger.Error("Session failed", zap.Stringer("run", session.ID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "solve")
		return nil, nil, err
	}
	if err != nil {
		s.logger.Warning("Move limit reached", zap.Stringer("run", session.ID), zap.Int("moves", outcome.Moves))
	}

	run := &dmn.Run{
		ID:         session.ID,
		Rows:       req.Rows,
		Cols:       req.Cols,
		Seed:       seed,
		Rollouts:   req.Rollouts,
		Moves:      outcome.Moves,
		Finished:   outcome.Finished,
		Stuck:      outcome.Stuck,
		Path:       outcome.Path,
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  started.UTC(),
	}
	span.SetAttributes(
		attribute.Int("solver.moves", run.Moves),
		attribute.Bool("solver.finished", run.Finished),
		attribute.Bool("solver.stuck", run.Stuck),
	)

	s.logger.Info("Session over",
		zap.Stringer("run", run.ID), zap.Int("moves", run.Moves),
		zap.Bool("finished", run.Finished), zap.Bool("stuck", run.Stuck), zap.Duration("took", elapsed))

	if err := s.record(ctx, run); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record")
		return run, grid, err
	}

	span.SetStatus(codes.Ok, "")
	return run, grid, nil
}

// Run looks up a stored run.
func (s *Solver) Run(ctx context.Context, id uuid.UUID) (*dmn.Run, error) {
	if s.runs == nil {
		return nil, ErrNoRunStore
	}
	return s.runs.ByID(ctx, id)
}

// Recent lists the newest stored runs.
func (s *Solver) Recent(ctx context.Context, limit int64) ([]*dmn.Run, error) {
	if s.runs == nil {
		return nil, ErrNoRunStore
	}
	return s.runs.Recent(ctx, limit)
}

// Leaders resolves the best runs of a maze size into full records.
// Ranked IDs whose record is gone are skipped.
func (s *Solver) Leaders(ctx context.Context, rows, cols int, limit int64) ([]*dmn.Run, error) {
	if s.runs == nil || s.leaderboard == nil {
		return nil, ErrNoRunStore
	}

	ids, err := s.leaderboard.Top(ctx, rows, cols, limit)
	if err != nil {
		return nil, err
	}

	runs := make([]*dmn.Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.runs.ByID(ctx, id)
		if err != nil {
			s.logger.Warning("Ranked run missing", zap.Stringer("run", id), zap.Error(err))
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *Solver) record(ctx context.Context, run *dmn.Run) error {
	if s.runs != nil {
		if err := s.runs.Save(ctx, run); err != nil {
			s.logger.Error("Failed to save run", zap.Stringer("run", run.ID), zap.Error(err))
			return fmt.Errorf("saving run: %w", err)
		}
	}

	if s.leaderboard != nil && run.Finished {
		if err := s.leaderboard.Record(ctx, run); err != nil {
			return fmt.Errorf("ranking run: %w", err)
		}
	}
	return nil
}

func (s *Solver) withDefaults(req dmn.SolveRequest) dmn.SolveRequest {
	if req.Rows == 0 {
		req.Rows = s.opts.Rows
	}
	if req.Cols == 0 {
		req.Cols = s.opts.Cols
	}
	if req.Rollouts <= 0 {
		req.Rollouts = s.opts.Rollouts
	}
	if req.MaxMoves <= 0 {
		req.MaxMoves = s.opts.MaxMoves
	}
	return req
}
