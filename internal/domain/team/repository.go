package team

import "context"

// Repository describes team persistence needs from use cases.
// Upsert must preserve IsMajor on already-known teams.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	Upsert(ctx context.Context, item Team) error
	SearchByName(ctx context.Context, query string, limit int) ([]Team, error)
}
