package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/champi-dev/live-football/internal/domain/lineup"
	qb "github.com/champi-dev/live-football/internal/platform/querybuilder"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

type lineupTableModel struct {
	ID          int64         `db:"id"`
	MatchID     int64         `db:"match_id"`
	TeamID      int64         `db:"team_id"`
	PlayerName  string        `db:"player_name"`
	Position    string        `db:"position"`
	ShirtNumber sql.NullInt64 `db:"shirt_number"`
	IsStarting  bool          `db:"is_starting"`
}

func (r *LineupRepository) ListByMatch(ctx context.Context, matchID int64) ([]lineup.Entry, error) {
	query, args, err := qb.Select("*").From("match_lineups").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("team_id", "is_starting DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select lineups query: %w", err)
	}

	var rows []lineupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select lineups: %w", err)
	}

	out := make([]lineup.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineup.Entry{
			MatchID:     row.MatchID,
			TeamID:      row.TeamID,
			PlayerName:  row.PlayerName,
			Position:    row.Position,
			ShirtNumber: nullInt64ToIntPtr(row.ShirtNumber),
			IsStarting:  row.IsStarting,
		})
	}
	return out, nil
}

// ReplaceForMatch swaps both squads of a match inside one transaction.
func (r *LineupRepository) ReplaceForMatch(ctx context.Context, matchID int64, entries []lineup.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace lineups tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery, deleteArgs, err := deleteByMatchSQL("match_lineups", matchID)
	if err != nil {
		return fmt.Errorf("build delete lineups query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete lineups: %w", err)
	}

	if len(entries) > 0 {
		builder := qb.InsertInto("match_lineups").
			Columns("match_id", "team_id", "player_name", "position", "shirt_number", "is_starting")
		for _, item := range entries {
			builder.Values(
				matchID,
				item.TeamID,
				item.PlayerName,
				item.Position,
				intPtrToNullInt64(item.ShirtNumber),
				item.IsStarting,
			)
		}

		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert lineups query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert lineups: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace lineups tx: %w", err)
	}
	return nil
}
