package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/mcts"
	"github.com/google/uuid"
)

// Session-related errors.
var (
	ErrSessionOver        = errors.New("session already ended")
	ErrMoveLimitReached   = errors.New("move limit reached before the agent stopped")
	ErrInvalidRollouts    = errors.New("rollout count must be positive")
	ErrUnexpectedNodeType = errors.New("search returned a foreign node")
)

const (
	DefaultRolloutsPerMove = 50 // Rollouts run before every move decision.
)

// Options configures a Session.
type Options struct {
	ExplorationWeight  float64               // UCT exploration constant, 1 when unset
	MaxSimulationSteps int                   // Bound on one random simulation, 10 000 when unset
	Rand               *rand.Rand            // Source of random moves, time seeded when nil
	OnRollout          func(done, total int) // Called after every rollout of a RunRollouts batch
}

// Session is one maze-solving run. It owns the grid, the search tree and
// the current agent state; none of them is safe for concurrent use.
type Session struct {
	ID        uuid.UUID
	grid      *maze.Grid
	tree      *mcts.Tree[HistoryKey]
	current   *AgentState
	moves     int
	onRollout func(done, total int)
}

// Outcome summarizes how a session ended.
type Outcome struct {
	Finished bool            // The agent reached the exit
	Stuck    bool            // The agent could not move any further
	Moves    int             // Number of moves chosen
	Path     []maze.Position // Every position the agent stood on, entrance first
}

// NewSession starts a session with the agent on the entrance of grid.
func NewSession(grid *maze.Grid, opts *Options) *Session {
	if opts == nil {
		opts = &Options{}
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Session{
		ID:   uuid.New(),
		grid: grid,
		tree: mcts.New[HistoryKey](&mcts.Options{
			ExplorationWeight:  opts.ExplorationWeight,
			MaxSimulationSteps: opts.MaxSimulationSteps,
		}),
		current:   NewAgentState(grid, rng),
		onRollout: opts.OnRollout,
	}
}

// Current returns the state the agent is in.
func (s *Session) Current() *AgentState {
	return s.current
}

// Grid returns the grid the session mutates.
func (s *Session) Grid() *maze.Grid {
	return s.grid
}

// Moves returns the number of moves chosen so far.
func (s *Session) Moves() int {
	return s.moves
}

// Tree exposes the search bookkeeping, mainly for inspection.
func (s *Session) Tree() *mcts.Tree[HistoryKey] {
	return s.tree
}

// Over reports whether the agent is stuck or already on the exit.
func (s *Session) Over() bool {
	return s.current.IsStuck() || s.current.IsFinished()
}

// RunRollouts trains the tree with count rollouts from the current state.
func (s *Session) RunRollouts(count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRollouts, count)
	}
	for i := 0; i < count; i++ {
		if err := s.tree.DoRollout(s.current); err != nil {
			return fmt.Errorf("rollout %d: %w", i+1, err)
		}
		if s.onRollout != nil {
			s.onRollout(i+1, count)
		}
	}
	return nil
}

// ChooseNext moves the agent to the best known successor and returns it.
func (s *Session) ChooseNext() (*AgentState, error) {
	if s.current.IsStuck() {
		return nil, ErrSessionOver
	}

	node, err := s.tree.Choose(s.current)
	if err != nil {
		return nil, err
	}

	next, ok := node.(*AgentState)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedNodeType, node)
	}

	s.current = next
	s.moves++
	return next, nil
}

// Solve alternates rollouts and moves until the agent is stuck or reaches
// the exit. onMove, when set, sees every chosen state. The context is only
// checked between moves.
func (s *Session) Solve(ctx context.Context, rolloutsPerMove, maxMoves int, onMove func(*AgentState)) (*Outcome, error) {
	if rolloutsPerMove <= 0 {
		rolloutsPerMove = DefaultRolloutsPerMove
	}
	if maxMoves <= 0 {
		maxMoves = s.grid.Rows() * s.grid.Cols()
	}

	for !s.Over() {
		if err := ctx.Err(); err != nil {
			return s.outcome(), err
		}
		if s.moves >= maxMoves {
			return s.outcome(), fmt.Errorf("%w: %d moves", ErrMoveLimitReached, maxMoves)
		}

		if err := s.RunRollouts(rolloutsPerMove); err != nil {
			return s.outcome(), err
		}
		next, err := s.ChooseNext()
		if err != nil {
			return s.outcome(), err
		}
		if onMove != nil {
			onMove(next)
		}
	}

	return s.outcome(), nil
}

func (s *Session) outcome() *Outcome {
	return &Outcome{
		Finished: s.current.IsFinished(),
		Stuck:    s.current.IsStuck(),
		Moves:    s.moves,
		Path:     s.current.Path(),
	}
}
