package postgres

import (
	"database/sql"
	"time"

	"github.com/champi-dev/live-football/internal/domain/team"
)

type teamTableModel struct {
	ID        int64         `db:"id"`
	Name      string        `db:"name"`
	ShortName string        `db:"short_name"`
	Tla       string        `db:"tla"`
	CrestURL  string        `db:"crest_url"`
	Country   string        `db:"country"`
	Founded   sql.NullInt64 `db:"founded"`
	Venue     string        `db:"venue"`
	IsMajor   bool          `db:"is_major"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type teamInsertModel struct {
	ID        int64         `db:"id"`
	Name      string        `db:"name"`
	ShortName string        `db:"short_name"`
	Tla       string        `db:"tla"`
	CrestURL  string        `db:"crest_url"`
	Country   string        `db:"country"`
	Founded   sql.NullInt64 `db:"founded"`
	Venue     string        `db:"venue"`
	IsMajor   bool          `db:"is_major"`
}

func teamRowToDomain(row teamTableModel) team.Team {
	return team.Team{
		ID:        row.ID,
		Name:      row.Name,
		ShortName: row.ShortName,
		Tla:       row.Tla,
		CrestURL:  row.CrestURL,
		Country:   row.Country,
		Founded:   nullInt64ToIntPtr(row.Founded),
		Venue:     row.Venue,
		IsMajor:   row.IsMajor,
	}
}
