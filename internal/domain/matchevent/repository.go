package matchevent

import "context"

// Repository persists match timelines. ReplaceForMatch swaps the full
// timeline of a match atomically.
type Repository interface {
	ListByMatch(ctx context.Context, matchID int64) ([]Event, error)
	ReplaceForMatch(ctx context.Context, matchID int64, events []Event) error
}
