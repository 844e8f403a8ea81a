package postgres

import (
	"database/sql"
	"time"

	"github.com/champi-dev/live-football/internal/domain/match"
)

type matchTableModel struct {
	ID                int64          `db:"id"`
	LeagueID          int64          `db:"league_id"`
	LeagueName        string         `db:"league_name"`
	HomeTeamID        int64          `db:"home_team_id"`
	AwayTeamID        int64          `db:"away_team_id"`
	KickoffAt         time.Time      `db:"kickoff_at"`
	Status            string         `db:"status"`
	Matchday          int            `db:"matchday"`
	HomeScore         int            `db:"home_score"`
	AwayScore         int            `db:"away_score"`
	HalfTimeHomeScore sql.NullInt64  `db:"ht_home_score"`
	HalfTimeAwayScore sql.NullInt64  `db:"ht_away_score"`
	ElapsedMinute     sql.NullInt64  `db:"elapsed_minute"`
	Venue             string         `db:"venue"`
	Referee           string         `db:"referee"`
	Attendance        sql.NullInt64  `db:"attendance"`
	HomeFormation     string         `db:"home_formation"`
	AwayFormation     string         `db:"away_formation"`
	HomeCoach         string         `db:"home_coach"`
	AwayCoach         string         `db:"away_coach"`
	LastSyncedAt      time.Time      `db:"last_synced_at"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	ID                int64         `db:"id"`
	LeagueID          int64         `db:"league_id"`
	LeagueName        string        `db:"league_name"`
	HomeTeamID        int64         `db:"home_team_id"`
	AwayTeamID        int64         `db:"away_team_id"`
	KickoffAt         time.Time     `db:"kickoff_at"`
	Status            string        `db:"status"`
	Matchday          int           `db:"matchday"`
	HomeScore         int           `db:"home_score"`
	AwayScore         int           `db:"away_score"`
	HalfTimeHomeScore sql.NullInt64 `db:"ht_home_score"`
	HalfTimeAwayScore sql.NullInt64 `db:"ht_away_score"`
	ElapsedMinute     sql.NullInt64 `db:"elapsed_minute"`
	Venue             string        `db:"venue"`
	Referee           string        `db:"referee"`
	Attendance        sql.NullInt64 `db:"attendance"`
	HomeFormation     string        `db:"home_formation"`
	AwayFormation     string        `db:"away_formation"`
	HomeCoach         string        `db:"home_coach"`
	AwayCoach         string        `db:"away_coach"`
	LastSyncedAt      time.Time     `db:"last_synced_at"`
}

func matchRowToDomain(row matchTableModel) match.Match {
	return match.Match{
		ID:                row.ID,
		LeagueID:          row.LeagueID,
		LeagueName:        row.LeagueName,
		HomeTeamID:        row.HomeTeamID,
		AwayTeamID:        row.AwayTeamID,
		KickoffAt:         row.KickoffAt,
		Status:            row.Status,
		Matchday:          row.Matchday,
		HomeScore:         row.HomeScore,
		AwayScore:         row.AwayScore,
		HalfTimeHomeScore: nullInt64ToIntPtr(row.HalfTimeHomeScore),
		HalfTimeAwayScore: nullInt64ToIntPtr(row.HalfTimeAwayScore),
		ElapsedMinute:     nullInt64ToIntPtr(row.ElapsedMinute),
		Venue:             row.Venue,
		Referee:           row.Referee,
		Attendance:        nullInt64ToIntPtr(row.Attendance),
		HomeFormation:     row.HomeFormation,
		AwayFormation:     row.AwayFormation,
		HomeCoach:         row.HomeCoach,
		AwayCoach:         row.AwayCoach,
		LastSyncedAt:      row.LastSyncedAt,
	}
}

func matchToInsertModel(item match.Match) matchInsertModel {
	return matchInsertModel{
		ID:                item.ID,
		LeagueID:          item.LeagueID,
		LeagueName:        item.LeagueName,
		HomeTeamID:        item.HomeTeamID,
		AwayTeamID:        item.AwayTeamID,
		KickoffAt:         item.KickoffAt,
		Status:            item.Status,
		Matchday:          item.Matchday,
		HomeScore:         item.HomeScore,
		AwayScore:         item.AwayScore,
		HalfTimeHomeScore: intPtrToNullInt64(item.HalfTimeHomeScore),
		HalfTimeAwayScore: intPtrToNullInt64(item.HalfTimeAwayScore),
		ElapsedMinute:     intPtrToNullInt64(item.ElapsedMinute),
		Venue:             item.Venue,
		Referee:           item.Referee,
		Attendance:        intPtrToNullInt64(item.Attendance),
		HomeFormation:     item.HomeFormation,
		AwayFormation:     item.AwayFormation,
		HomeCoach:         item.HomeCoach,
		AwayCoach:         item.AwayCoach,
		LastSyncedAt:      item.LastSyncedAt,
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
