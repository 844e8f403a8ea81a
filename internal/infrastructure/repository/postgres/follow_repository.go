package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/champi-dev/live-football/internal/domain/follow"
	qb "github.com/champi-dev/live-football/internal/platform/querybuilder"
)

type FollowRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

type followTableModel struct {
	UserID           string    `db:"user_id"`
	TeamID           int64     `db:"team_id"`
	NotifyMatchStart bool      `db:"notify_match_start"`
	NotifyGoals      bool      `db:"notify_goals"`
	NotifyFinalScore bool      `db:"notify_final_score"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r *FollowRepository) Upsert(ctx context.Context, item follow.Follow) error {
	insertModel := followTableModel{
		UserID:           item.UserID,
		TeamID:           item.TeamID,
		NotifyMatchStart: item.NotifyMatchStart,
		NotifyGoals:      item.NotifyGoals,
		NotifyFinalScore: item.NotifyFinalScore,
		CreatedAt:        item.CreatedAt,
	}

	query, args, err := qb.InsertModel("team_follows", insertModel, `ON CONFLICT (user_id, team_id)
DO UPDATE SET
    notify_match_start = EXCLUDED.notify_match_start,
    notify_goals = EXCLUDED.notify_goals,
    notify_final_score = EXCLUDED.notify_final_score`)
	if err != nil {
		return fmt.Errorf("build team follow upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, userID string, teamID int64) error {
	const query = `DELETE FROM team_follows WHERE user_id = $1 AND team_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, teamID); err != nil {
		return fmt.Errorf("delete team follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) ListByUser(ctx context.Context, userID string) ([]follow.Follow, error) {
	query, args, err := qb.Select("*").From("team_follows").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team follows query: %w", err)
	}

	var rows []followTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team follows: %w", err)
	}

	items := make([]follow.Follow, 0, len(rows))
	for _, row := range rows {
		items = append(items, follow.Follow{
			UserID:           row.UserID,
			TeamID:           row.TeamID,
			NotifyMatchStart: row.NotifyMatchStart,
			NotifyGoals:      row.NotifyGoals,
			NotifyFinalScore: row.NotifyFinalScore,
			CreatedAt:        row.CreatedAt,
		})
	}
	return items, nil
}
