package domain

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/google/uuid"
)

var (
	ErrRunNotFound = errors.New("run not found")
)

// Run is the BSON summary of one maze-solving session.
// The maze itself is never stored, only what is needed to regenerate it.
type Run struct {
	ID         uuid.UUID       `bson:"_id" json:"id"`
	Rows       int             `bson:"rows" json:"rows"`
	Cols       int             `bson:"cols" json:"cols"`
	Seed       int64           `bson:"seed" json:"seed"`
	Rollouts   int             `bson:"rollouts" json:"rollouts"` // per move
	Moves      int             `bson:"moves" json:"moves"`
	Finished   bool            `bson:"finished" json:"finished"`
	Stuck      bool            `bson:"stuck" json:"stuck"`
	Path       []maze.Position `bson:"path" json:"path"`
	DurationMS int64           `bson:"durationMs" json:"duration_ms"`
	CreatedAt  time.Time       `bson:"createdAt" json:"created_at"`
}

// SolveRequest describes the maze to generate and how hard to search it.
// Zero values fall back to the solver's configuration.
type SolveRequest struct {
	Rows     int
	Cols     int
	Seed     int64 // 0 picks one from the clock
	Rollouts int   // per move
	MaxMoves int

	// OnMove, when set, is called after every move with the shared grid
	// and the agent's new position.
	OnMove func(grid *maze.Grid, at maze.Position)
}
