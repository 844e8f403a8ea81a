package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/champi-dev/live-football/internal/domain/matchstat"
	qb "github.com/champi-dev/live-football/internal/platform/querybuilder"
)

type MatchStatRepository struct {
	db *sqlx.DB
}

func NewMatchStatRepository(db *sqlx.DB) *MatchStatRepository {
	return &MatchStatRepository{db: db}
}

type matchStatTableModel struct {
	MatchID        int64         `db:"match_id"`
	HomePossession sql.NullInt64 `db:"home_possession"`
	AwayPossession sql.NullInt64 `db:"away_possession"`
	HomeShots      sql.NullInt64 `db:"home_shots"`
	AwayShots      sql.NullInt64 `db:"away_shots"`
	HomeShotsOn    sql.NullInt64 `db:"home_shots_on_goal"`
	AwayShotsOn    sql.NullInt64 `db:"away_shots_on_goal"`
	HomeShotsOff   sql.NullInt64 `db:"home_shots_off_goal"`
	AwayShotsOff   sql.NullInt64 `db:"away_shots_off_goal"`
	HomeCorners    sql.NullInt64 `db:"home_corners"`
	AwayCorners    sql.NullInt64 `db:"away_corners"`
	HomeFouls      sql.NullInt64 `db:"home_fouls"`
	AwayFouls      sql.NullInt64 `db:"away_fouls"`
	HomeOffsides   sql.NullInt64 `db:"home_offsides"`
	AwayOffsides   sql.NullInt64 `db:"away_offsides"`
	HomeYellows    sql.NullInt64 `db:"home_yellow_cards"`
	AwayYellows    sql.NullInt64 `db:"away_yellow_cards"`
	HomeReds       sql.NullInt64 `db:"home_red_cards"`
	AwayReds       sql.NullInt64 `db:"away_red_cards"`
	HomeSaves      sql.NullInt64 `db:"home_saves"`
	AwaySaves      sql.NullInt64 `db:"away_saves"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

type matchStatInsertModel struct {
	MatchID        int64         `db:"match_id"`
	HomePossession sql.NullInt64 `db:"home_possession"`
	AwayPossession sql.NullInt64 `db:"away_possession"`
	HomeShots      sql.NullInt64 `db:"home_shots"`
	AwayShots      sql.NullInt64 `db:"away_shots"`
	HomeShotsOn    sql.NullInt64 `db:"home_shots_on_goal"`
	AwayShotsOn    sql.NullInt64 `db:"away_shots_on_goal"`
	HomeShotsOff   sql.NullInt64 `db:"home_shots_off_goal"`
	AwayShotsOff   sql.NullInt64 `db:"away_shots_off_goal"`
	HomeCorners    sql.NullInt64 `db:"home_corners"`
	AwayCorners    sql.NullInt64 `db:"away_corners"`
	HomeFouls      sql.NullInt64 `db:"home_fouls"`
	AwayFouls      sql.NullInt64 `db:"away_fouls"`
	HomeOffsides   sql.NullInt64 `db:"home_offsides"`
	AwayOffsides   sql.NullInt64 `db:"away_offsides"`
	HomeYellows    sql.NullInt64 `db:"home_yellow_cards"`
	AwayYellows    sql.NullInt64 `db:"away_yellow_cards"`
	HomeReds       sql.NullInt64 `db:"home_red_cards"`
	AwayReds       sql.NullInt64 `db:"away_red_cards"`
	HomeSaves      sql.NullInt64 `db:"home_saves"`
	AwaySaves      sql.NullInt64 `db:"away_saves"`
}

func (r *MatchStatRepository) GetByMatch(ctx context.Context, matchID int64) (matchstat.Stats, bool, error) {
	query, args, err := qb.Select("*").From("match_statistics").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return matchstat.Stats{}, false, fmt.Errorf("build select match statistics query: %w", err)
	}

	var row matchStatTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchstat.Stats{}, false, nil
		}
		return matchstat.Stats{}, false, fmt.Errorf("select match statistics: %w", err)
	}

	return statRowToDomain(row), true, nil
}

func (r *MatchStatRepository) Upsert(ctx context.Context, item matchstat.Stats) error {
	insertModel := statToInsertModel(item)

	query, args, err := qb.InsertModel("match_statistics", insertModel, `ON CONFLICT (match_id)
DO UPDATE SET
    home_possession = EXCLUDED.home_possession,
    away_possession = EXCLUDED.away_possession,
    home_shots = EXCLUDED.home_shots,
    away_shots = EXCLUDED.away_shots,
    home_shots_on_goal = EXCLUDED.home_shots_on_goal,
    away_shots_on_goal = EXCLUDED.away_shots_on_goal,
    home_shots_off_goal = EXCLUDED.home_shots_off_goal,
    away_shots_off_goal = EXCLUDED.away_shots_off_goal,
    home_corners = EXCLUDED.home_corners,
    away_corners = EXCLUDED.away_corners,
    home_fouls = EXCLUDED.home_fouls,
    away_fouls = EXCLUDED.away_fouls,
    home_offsides = EXCLUDED.home_offsides,
    away_offsides = EXCLUDED.away_offsides,
    home_yellow_cards = EXCLUDED.home_yellow_cards,
    away_yellow_cards = EXCLUDED.away_yellow_cards,
    home_red_cards = EXCLUDED.home_red_cards,
    away_red_cards = EXCLUDED.away_red_cards,
    home_saves = EXCLUDED.home_saves,
    away_saves = EXCLUDED.away_saves,
    updated_at = NOW()
RETURNING updated_at`)
	if err != nil {
		return fmt.Errorf("build match statistics upsert query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert match statistics: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return fmt.Errorf("upsert match statistics: no row returned")
	}
	return nil
}

func statRowToDomain(row matchStatTableModel) matchstat.Stats {
	return matchstat.Stats{
		MatchID:        row.MatchID,
		HomePossession: nullInt64ToIntPtr(row.HomePossession),
		AwayPossession: nullInt64ToIntPtr(row.AwayPossession),
		HomeShots:      nullInt64ToIntPtr(row.HomeShots),
		AwayShots:      nullInt64ToIntPtr(row.AwayShots),
		HomeShotsOn:    nullInt64ToIntPtr(row.HomeShotsOn),
		AwayShotsOn:    nullInt64ToIntPtr(row.AwayShotsOn),
		HomeShotsOff:   nullInt64ToIntPtr(row.HomeShotsOff),
		AwayShotsOff:   nullInt64ToIntPtr(row.AwayShotsOff),
		HomeCorners:    nullInt64ToIntPtr(row.HomeCorners),
		AwayCorners:    nullInt64ToIntPtr(row.AwayCorners),
		HomeFouls:      nullInt64ToIntPtr(row.HomeFouls),
		AwayFouls:      nullInt64ToIntPtr(row.AwayFouls),
		HomeOffsides:   nullInt64ToIntPtr(row.HomeOffsides),
		AwayOffsides:   nullInt64ToIntPtr(row.AwayOffsides),
		HomeYellows:    nullInt64ToIntPtr(row.HomeYellows),
		AwayYellows:    nullInt64ToIntPtr(row.AwayYellows),
		HomeReds:       nullInt64ToIntPtr(row.HomeReds),
		AwayReds:       nullInt64ToIntPtr(row.AwayReds),
		HomeSaves:      nullInt64ToIntPtr(row.HomeSaves),
		AwaySaves:      nullInt64ToIntPtr(row.AwaySaves),
	}
}

func statToInsertModel(item matchstat.Stats) matchStatInsertModel {
	return matchStatInsertModel{
		MatchID:        item.MatchID,
		HomePossession: intPtrToNullInt64(item.HomePossession),
		AwayPossession: intPtrToNullInt64(item.AwayPossession),
		HomeShots:      intPtrToNullInt64(item.HomeShots),
		AwayShots:      intPtrToNullInt64(item.AwayShots),
		HomeShotsOn:    intPtrToNullInt64(item.HomeShotsOn),
		AwayShotsOn:    intPtrToNullInt64(item.AwayShotsOn),
		HomeShotsOff:   intPtrToNullInt64(item.HomeShotsOff),
		AwayShotsOff:   intPtrToNullInt64(item.AwayShotsOff),
		HomeCorners:    intPtrToNullInt64(item.HomeCorners),
		AwayCorners:    intPtrToNullInt64(item.AwayCorners),
		HomeFouls:      intPtrToNullInt64(item.HomeFouls),
		AwayFouls:      intPtrToNullInt64(item.AwayFouls),
		HomeOffsides:   intPtrToNullInt64(item.HomeOffsides),
		AwayOffsides:   intPtrToNullInt64(item.AwayOffsides),
		HomeYellows:    intPtrToNullInt64(item.HomeYellows),
		AwayYellows:    intPtrToNullInt64(item.AwayYellows),
		HomeReds:       intPtrToNullInt64(item.HomeReds),
		AwayReds:       intPtrToNullInt64(item.AwayReds),
		HomeSaves:      intPtrToNullInt64(item.HomeSaves),
		AwaySaves:      intPtrToNullInt64(item.AwaySaves),
	}
}
