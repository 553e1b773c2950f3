package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/google/uuid"
)

// Leaderboard ranks finished runs per maze size by the number of moves.
type Leaderboard interface {
	Record(ctx context.Context, run *dmn.Run) error
	Top(ctx context.Context, rows, cols int, limit int64) ([]uuid.UUID, error)
}
