package match

import (
	"strings"
	"time"
)

const (
	StatusNotStarted  = "NOT_STARTED"
	StatusLive        = "LIVE"
	StatusHalfTime    = "HALF_TIME"
	StatusFullTime    = "FULL_TIME"
	StatusPostponed   = "POSTPONED"
	StatusCancelled   = "CANCELLED"
	StatusToBeDefined = "TO_BE_DEFINED"
)

// Match is one fixture as stored locally, keyed by the upstream fixture ID.
type Match struct {
	ID                int64
	LeagueID          int64
	LeagueName        string
	HomeTeamID        int64
	AwayTeamID        int64
	KickoffAt         time.Time
	Status            string
	HomeScore         int
	AwayScore         int
	HalfTimeHomeScore *int
	HalfTimeAwayScore *int
	ElapsedMinute     *int
	Venue             string
	Referee           string
	Attendance        *int
	HomeFormation     string
	AwayFormation     string
	HomeCoach         string
	AwayCoach         string
	Matchday          int
	LastSyncedAt      time.Time
}

// MapProviderStatus folds the upstream status vocabulary into the local one.
// Unknown values map to NOT_STARTED.
func MapProviderStatus(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "SCHEDULED", "TIMED":
		return StatusNotStarted
	case "IN_PLAY":
		return StatusLive
	case "PAUSED":
		return StatusHalfTime
	case "FINISHED", "AWARDED", "AWD", "WO":
		return StatusFullTime
	case "SUSPENDED", "POSTPONED", "PST":
		return StatusPostponed
	case "CANCELLED", "ABD":
		return StatusCancelled
	case "TBD":
		return StatusToBeDefined
	default:
		return StatusNotStarted
	}
}

func IsInPlayStatus(status string) bool {
	switch status {
	case StatusLive, StatusHalfTime:
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	return status == StatusFullTime
}

// NeedsDetail reports whether the match is in a state where the upstream
// detail endpoint carries events worth fetching.
func NeedsDetail(status string) bool {
	switch status {
	case StatusLive, StatusHalfTime, StatusFullTime:
		return true
	default:
		return false
	}
}

// ElapsedMinute computes the whole minutes since kickoff, clamped at zero.
// It only applies while the clock is actually running; at half time the
// wall-clock estimate would keep growing, so no value is reported.
func ElapsedMinute(status string, kickoffAt, now time.Time) *int {
	if status != StatusLive {
		return nil
	}
	minutes := int(now.Sub(kickoffAt) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return &minutes
}

// ListFilter narrows the match listing. Zero values mean "no constraint".
type ListFilter struct {
	LeagueID *int64
	Statuses []string
	TeamID   *int64
	Date     *time.Time
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Page     int
	Limit    int
}

// Page carries listing pagination metadata.
type Page struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func NewPage(page, limit, total int) Page {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Page{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
