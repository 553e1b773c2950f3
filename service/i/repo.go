package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/google/uuid"
)

// RunRepo defines the interface for run persistence operations.
type RunRepo interface {
	// Save inserts or updates a run in the repository.
	// If the run already exists, it updates the record. Otherwise, it creates a new one.
	Save(ctx context.Context, run *dmn.Run) error

	// ByID retrieves a run by its unique ID.
	// Returns an error if the run is not found or in case of an unexpected error.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.Run, error)

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int64) ([]*dmn.Run, error)
}
