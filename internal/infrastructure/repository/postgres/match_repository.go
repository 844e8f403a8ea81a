package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/champi-dev/live-football/internal/domain/match"
	qb "github.com/champi-dev/live-football/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match: %w", err)
	}

	return matchRowToDomain(row), true, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	insertModel := matchToInsertModel(item)

	// League identity, team pairing, kickoff, matchday and venue are fixed
	// at creation; only the fields that legitimately change mid-match are
	// refreshed on conflict.
	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (id)
DO UPDATE SET
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    ht_home_score = EXCLUDED.ht_home_score,
    ht_away_score = EXCLUDED.ht_away_score,
    elapsed_minute = EXCLUDED.elapsed_minute,
    referee = EXCLUDED.referee,
    attendance = EXCLUDED.attendance,
    home_formation = EXCLUDED.home_formation,
    away_formation = EXCLUDED.away_formation,
    home_coach = EXCLUDED.home_coach,
    away_coach = EXCLUDED.away_coach,
    last_synced_at = EXCLUDED.last_synced_at,
    updated_at = NOW()
RETURNING updated_at`)
	if err != nil {
		return fmt.Errorf("build match upsert query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return fmt.Errorf("upsert match: no row returned")
	}
	return nil
}

func (r *MatchRepository) List(ctx context.Context, filter match.ListFilter) ([]match.Match, int, error) {
	conditions := matchListConditions(filter)

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("matches").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count matches query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count matches: %w", err)
	}

	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * filter.Limit
	}

	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("kickoff_at", "id").
		Limit(filter.Limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchRowToDomain(row))
	}
	return out, total, nil
}

func (r *MatchRepository) ListLive(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.In("status", []any{match.StatusLive, match.StatusHalfTime})).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list live matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list live matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchRowToDomain(row))
	}
	return out, nil
}

func matchListConditions(filter match.ListFilter) []qb.Condition {
	conditions := make([]qb.Condition, 0, 6)
	if filter.LeagueID != nil {
		conditions = append(conditions, qb.Eq("league_id", *filter.LeagueID))
	}
	if filter.TeamID != nil {
		conditions = append(conditions, qb.Expr("(home_team_id = ? OR away_team_id = ?)", *filter.TeamID, *filter.TeamID))
	}
	if len(filter.Statuses) > 0 {
		values := make([]any, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			values = append(values, status)
		}
		conditions = append(conditions, qb.In("status", values))
	}
	if filter.Date != nil {
		day := filter.Date.UTC().Truncate(24 * time.Hour)
		conditions = append(conditions, qb.Expr("kickoff_at >= ? AND kickoff_at < ? + INTERVAL '1 day'", day, day))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, qb.Expr("kickoff_at >= ?", filter.DateFrom.UTC()))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, qb.Expr("kickoff_at < ? + INTERVAL '1 day'", filter.DateTo.UTC()))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, qb.Expr(
			"EXISTS (SELECT 1 FROM teams t WHERE (t.id = matches.home_team_id OR t.id = matches.away_team_id) AND t.name ILIKE ?)",
			pattern,
		))
	}
	return conditions
}
