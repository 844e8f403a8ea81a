package insight

import "context"

// Repository persists generated insights. Insert only, no updates.
type Repository interface {
	Insert(ctx context.Context, item Insight) error
	ListByMatch(ctx context.Context, matchID int64) ([]Insight, error)
}
