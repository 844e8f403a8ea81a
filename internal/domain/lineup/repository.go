package lineup

import "context"

// Repository exposes lineup persistence operations. ReplaceForMatch swaps the
// full set of entries for a match atomically.
type Repository interface {
	ListByMatch(ctx context.Context, matchID int64) ([]Entry, error)
	ReplaceForMatch(ctx context.Context, matchID int64, entries []Entry) error
}
