package i

import "context"

// SortedSet is a scored set of string members, lowest score first.
type SortedSet interface {
	// Add inserts member with score, replacing the score of an existing member.
	Add(ctx context.Context, key string, score float64, member string) error

	// Top returns up to amount members with the lowest scores.
	Top(ctx context.Context, key string, amount int64) ([]string, error)

	// Trim drops everything but the keep lowest scored members.
	Trim(ctx context.Context, key string, keep int64) error

	// Count returns the number of members stored under key.
	Count(ctx context.Context, key string) int64
}
