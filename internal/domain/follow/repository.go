package follow

import "context"

// Repository persists team follows keyed by (user, team).
type Repository interface {
	Upsert(ctx context.Context, item Follow) error
	Delete(ctx context.Context, userID string, teamID int64) error
	ListByUser(ctx context.Context, userID string) ([]Follow, error)
}
