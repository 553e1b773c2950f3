package service

import (
	"context"
	"errors"
	"fmt"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPrefix     = "pathfinder"
	defaultCapacity   = 100
	defaultTopLimit   = 10
	leaderboardKeyFmt = "%s:leaderboard:%dx%d"
)

var (
	ErrUnfinishedRun = errors.New("only finished runs are ranked")
)

// LeaderboardOptions configures a Leaderboard.
type LeaderboardOptions struct {
	Prefix   string // Key namespace in the sorted set store
	Capacity int64  // Runs kept per maze size
}

// Leaderboard keeps the shortest finished runs of every maze size.
type Leaderboard struct {
	sortedSet i.SortedSet
	logger    i.Logger
	opts      *LeaderboardOptions
}

// NewLeaderboard creates a leaderboard on top of sortedSet.
func NewLeaderboard(sortedSet i.SortedSet, logger i.Logger, opts *LeaderboardOptions) (*Leaderboard, error) {
	if sortedSet == nil {
		return nil, errors.New("leaderboard: nil sorted set")
	}

	if opts == nil {
		opts = &LeaderboardOptions{
			Prefix:   defaultPrefix,
			Capacity: defaultCapacity,
		}
	}

	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}

	if opts.Capacity <= 0 {
		opts.Capacity = defaultCapacity
	}

	return &Leaderboard{
		sortedSet: sortedSet,
		logger:    logger,
		opts:      opts,
	}, nil
}

// Record ranks run by its move count. Runs that did not reach the exit are
// rejected with ErrUnfinishedRun.
func (lb *Leaderboard) Record(ctx context.Context, run *dmn.Run) error {
	if !run.Finished {
		return ErrUnfinishedRun
	}

	key := lb.key(run.Rows, run.Cols)
	if err := lb.sortedSet.Add(ctx, key, float64(run.Moves), run.ID.String()); err != nil {
		lb.logger.Error("Failed to rank run", zap.Stringer("run", run.ID), zap.Error(err))
		return err
	}

	if lb.sortedSet.Count(ctx, key) > lb.opts.Capacity {
		if err := lb.sortedSet.Trim(ctx, key, lb.opts.Capacity); err != nil {
			lb.logger.Warning("Failed to trim leaderboard", zap.String("key", key), zap.Error(err))
		}
	}

	lb.logger.Info("Run ranked", zap.Stringer("run", run.ID), zap.Int("moves", run.Moves))
	return nil
}

// Top returns the IDs of the best runs on rows x cols mazes, fewest moves first.
func (lb *Leaderboard) Top(ctx context.Context, rows, cols int, limit int64) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	raw, err := lb.sortedSet.Top(ctx, lb.key(rows, cols), limit)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, member := range raw {
		if id, err := uuid.Parse(member); err == nil {
			ids = append(ids, id)
		} else {
			lb.logger.Warning("Non-UUID value in leaderboard", zap.String("member", member))
		}
	}
	return ids, nil
}

func (lb *Leaderboard) key(rows, cols int) string {
	return fmt.Sprintf(leaderboardKeyFmt, lb.opts.Prefix, rows, cols)
}
