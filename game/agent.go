package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/mcts"
)

var (
	ErrNoAvailableMove = errors.New("no available move")
)

// Direction is a named step an agent can take.
type Direction struct {
	Name  string
	Delta maze.Position
}

// Directions lists the steps in the order children are generated.
var Directions = []Direction{
	{Name: "up", Delta: maze.Position{X: 0, Y: 1}},
	{Name: "down", Delta: maze.Position{X: 0, Y: -1}},
	{Name: "left", Delta: maze.Position{X: -1, Y: 0}},
	{Name: "right", Delta: maze.Position{X: 1, Y: 0}},
}

var _ mcts.Node[HistoryKey] = &AgentState{}
var _ mcts.Explorer = &AgentState{}

// world is shared by every state of a session. Moving mutates the grid for
// all branches of the search, not only the branch that moved.
type world struct {
	grid *maze.Grid
	rng  *rand.Rand
}

// AgentState is a snapshot of the agent walking a maze.
type AgentState struct {
	world    *world
	position maze.Position   // Current position, may lie outside the grid when stuck
	history  []maze.Position // Previous positions, oldest first
	finished bool            // The agent stands on the exit
	stuck    bool            // The agent walked into a wall, a visited cell or off the grid
	key      HistoryKey
}

// NewAgentState places an agent on the entrance of grid.
// Random moves are drawn from rng; a nil rng uses a fixed seed.
func NewAgentState(grid *maze.Grid, rng *rand.Rand) *AgentState {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	start := grid.Entrance()
	return &AgentState{
		world:    &world{grid: grid, rng: rng},
		position: start,
		key:      newHistoryKey(nil, start),
	}
}

// Key implements mcts.Node.
func (s *AgentState) Key() HistoryKey {
	return s.key
}

// Position returns where the agent currently stands.
func (s *AgentState) Position() maze.Position {
	return s.position
}

// History returns a copy of the previously visited positions.
func (s *AgentState) History() []maze.Position {
	return slices.Clone(s.history)
}

// Path returns the previous positions followed by the current one.
func (s *AgentState) Path() []maze.Position {
	return append(s.History(), s.position)
}

// Grid returns the grid shared by the session.
func (s *AgentState) Grid() *maze.Grid {
	return s.world.grid
}

// IsFinished implements mcts.Node.
func (s *AgentState) IsFinished() bool {
	return s.finished
}

// IsStuck reports whether the agent can no longer move.
func (s *AgentState) IsStuck() bool {
	return s.stuck
}

// IsTerminal implements mcts.Node. A state is terminal exactly when it is stuck.
func (s *AgentState) IsTerminal() bool {
	return s.stuck
}

// Equal reports whether both states walked the same path.
func (s *AgentState) Equal(other *AgentState) bool {
	return other != nil && s.key == other.key
}

// FindChildren implements mcts.Node. Every direction yields a child; steps
// off the grid give a stuck child standing outside the maze.
func (s *AgentState) FindChildren() ([]mcts.Node[HistoryKey], error) {
	if s.stuck {
		return nil, nil
	}

	seen := make(map[HistoryKey]struct{}, len(Directions))
	children := make([]mcts.Node[HistoryKey], 0, len(Directions))

	for _, dir := range Directions {
		target := s.position.Add(dir.Delta)

		var child *AgentState
		if s.world.grid.InBounds(target) {
			var err error
			if child, err = s.Move(target); err != nil {
				return nil, err
			}
		} else {
			child = s.successor(target, false, true)
		}

		if _, dup := seen[child.key]; dup {
			continue
		}
		seen[child.key] = struct{}{}
		children = append(children, child)
	}

	return children, nil
}

// FindRandomChild implements mcts.Node. The agent moves either to an
// adjacent corridor or to any visited cell of the grid.
func (s *AgentState) FindRandomChild() (mcts.Node[HistoryKey], error) {
	if s.stuck {
		return s, nil
	}

	grid := s.world.grid
	var candidates []maze.Position
	for _, dir := range Directions {
		target := s.position.Add(dir.Delta)
		if kind, err := grid.Get(target); err == nil && kind == maze.Corridor {
			candidates = append(candidates, target)
		}
	}
	candidates = append(candidates, grid.LocationsOf(maze.Visited)...)

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w from %s", ErrNoAvailableMove, s.position)
	}

	child, err := s.Move(candidates[s.world.rng.Intn(len(candidates))])
	if err != nil {
		return nil, err
	}
	return child, nil
}

// Move returns the state reached by stepping onto target. Corridors and the
// exit are marked as holding the agent on the shared grid.
func (s *AgentState) Move(target maze.Position) (*AgentState, error) {
	grid := s.world.grid

	kind, err := grid.Get(target)
	if err != nil {
		return nil, err
	}

	finished := target == grid.Exit()
	stuck := false
	if !finished {
		stuck = kind != maze.Corridor && kind != maze.Exit
	}

	if kind == maze.Corridor || finished {
		if err := grid.Occupy(target); err != nil {
			return nil, err
		}
	}

	return s.successor(target, finished, stuck), nil
}

// Reward implements mcts.Node: zero on the exit, otherwise the straight
// line distance left to the exit.
func (s *AgentState) Reward() float64 {
	if s.finished {
		return 0
	}
	exit := s.world.grid.Exit()
	return math.Hypot(float64(s.position.X-exit.X), float64(s.position.Y-exit.Y))
}

// MarkExplored implements mcts.Explorer by marking the current cell visited.
func (s *AgentState) MarkExplored() {
	s.world.grid.SetVisited(s.position)
}

func (s *AgentState) String() string {
	return fmt.Sprintf("agent at %s (finished=%t, stuck=%t, steps=%d)", s.position, s.finished, s.stuck, len(s.history))
}

func (s *AgentState) successor(target maze.Position, finished, stuck bool) *AgentState {
	history := append(slices.Clone(s.history), s.position)
	return &AgentState{
		world:    s.world,
		position: target,
		history:  history,
		finished: finished,
		stuck:    stuck,
		key:      newHistoryKey(history, target),
	}
}
