package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/google/uuid"
)

// Solver generates mazes and lets the search agent walk them.
type Solver interface {
	// Generate builds a maze. A zero seed is replaced by one taken from
	// the clock and the seed actually used is returned.
	Generate(rows, cols int, seed int64) (*maze.Grid, int64, error)

	// Solve generates the requested maze and runs a full session on it.
	// The returned grid is the maze as the session left it.
	Solve(ctx context.Context, req dmn.SolveRequest) (*dmn.Run, *maze.Grid, error)

	// Run looks up a stored run.
	Run(ctx context.Context, id uuid.UUID) (*dmn.Run, error)

	// Recent lists the newest stored runs.
	Recent(ctx context.Context, limit int64) ([]*dmn.Run, error)

	// Leaders returns the best stored runs of a maze size, fewest moves first.
	Leaders(ctx context.Context, rows, cols int, limit int64) ([]*dmn.Run, error)
}
