package matchstat

import "context"

// Repository persists per-match statistics, one row per match.
type Repository interface {
	GetByMatch(ctx context.Context, matchID int64) (Stats, bool, error)
	Upsert(ctx context.Context, item Stats) error
}
