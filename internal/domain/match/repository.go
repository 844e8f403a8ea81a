package match

import "context"

// Repository persists matches keyed by upstream fixture ID.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	Upsert(ctx context.Context, item Match) error
	List(ctx context.Context, filter ListFilter) ([]Match, int, error)
	ListLive(ctx context.Context) ([]Match, error)
}
