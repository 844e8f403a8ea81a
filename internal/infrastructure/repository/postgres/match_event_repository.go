package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/champi-dev/live-football/internal/domain/matchevent"
	qb "github.com/champi-dev/live-football/internal/platform/querybuilder"
)

type MatchEventRepository struct {
	db *sqlx.DB
}

func NewMatchEventRepository(db *sqlx.DB) *MatchEventRepository {
	return &MatchEventRepository{db: db}
}

type matchEventTableModel struct {
	ID          int64         `db:"id"`
	MatchID     int64         `db:"match_id"`
	TeamID      int64         `db:"team_id"`
	Type        string        `db:"type"`
	Minute      int           `db:"minute"`
	ExtraMinute sql.NullInt64 `db:"extra_minute"`
	PlayerName  string        `db:"player_name"`
	AssistName  string        `db:"assist_name"`
	Detail      string        `db:"detail"`
}

func (r *MatchEventRepository) ListByMatch(ctx context.Context, matchID int64) ([]matchevent.Event, error) {
	query, args, err := qb.Select("*").From("match_events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("minute", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match events query: %w", err)
	}

	var rows []matchEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match events: %w", err)
	}

	out := make([]matchevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchevent.Event{
			MatchID:     row.MatchID,
			TeamID:      row.TeamID,
			Type:        row.Type,
			Minute:      row.Minute,
			ExtraMinute: nullInt64ToIntPtr(row.ExtraMinute),
			PlayerName:  row.PlayerName,
			AssistName:  row.AssistName,
			Detail:      row.Detail,
		})
	}
	return out, nil
}

// ReplaceForMatch swaps the full timeline of a match inside one
// transaction, so readers never observe a half-deleted timeline.
func (r *MatchEventRepository) ReplaceForMatch(ctx context.Context, matchID int64, events []matchevent.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace match events tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery, deleteArgs, err := deleteByMatchSQL("match_events", matchID)
	if err != nil {
		return fmt.Errorf("build delete match events query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete match events: %w", err)
	}

	if len(events) > 0 {
		builder := qb.InsertInto("match_events").
			Columns("match_id", "team_id", "type", "minute", "extra_minute", "player_name", "assist_name", "detail")
		for _, item := range events {
			builder.Values(
				matchID,
				item.TeamID,
				item.Type,
				item.Minute,
				intPtrToNullInt64(item.ExtraMinute),
				item.PlayerName,
				item.AssistName,
				item.Detail,
			)
		}

		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert match events query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert match events: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace match events tx: %w", err)
	}
	return nil
}

func deleteByMatchSQL(table string, matchID int64) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("table is required")
	}
	return fmt.Sprintf("DELETE FROM %s WHERE match_id = $1", table), []any{matchID}, nil
}
