package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/champi-dev/live-football/internal/domain/team"
	qb "github.com/champi-dev/live-football/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}

	return teamRowToDomain(row), true, nil
}

// Upsert refreshes club data. The major flag is decided at insert time
// and never changes on conflict, so a search-discovered team stays minor
// even when the sync pipeline sees it later.
func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	insertModel := teamInsertModel{
		ID:        item.ID,
		Name:      item.Name,
		ShortName: item.ShortName,
		Tla:       item.Tla,
		CrestURL:  item.CrestURL,
		Country:   item.Country,
		Founded:   intPtrToNullInt64(item.Founded),
		Venue:     item.Venue,
		IsMajor:   item.IsMajor,
	}

	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    tla = EXCLUDED.tla,
    crest_url = EXCLUDED.crest_url,
    country = CASE WHEN EXCLUDED.country <> '' THEN EXCLUDED.country ELSE teams.country END,
    founded = COALESCE(EXCLUDED.founded, teams.founded),
    venue = CASE WHEN EXCLUDED.venue <> '' THEN EXCLUDED.venue ELSE teams.venue END,
    is_major = teams.is_major,
    updated_at = NOW()
RETURNING updated_at`)
	if err != nil {
		return fmt.Errorf("build team upsert query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return fmt.Errorf("upsert team: no row returned")
	}
	return nil
}

func (r *TeamRepository) SearchByName(ctx context.Context, query string, limit int) ([]team.Team, error) {
	if limit <= 0 {
		limit = 10
	}

	sqlQuery, args, err := qb.Select("*").From("teams").
		Where(qb.Expr("(name ILIKE ? OR short_name ILIKE ? OR tla ILIKE ?)",
			"%"+query+"%", "%"+query+"%", "%"+query+"%")).
		OrderBy("is_major DESC", "name", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("search teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamRowToDomain(row))
	}
	return out, nil
}
