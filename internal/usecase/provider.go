package usecase

import (
	"context"
	"time"
)

// Upstream statistic keys recognised by the sync pipeline. Keys absent from
// a payload leave the corresponding column untouched (NULL on first write).
const (
	StatPossession   = "BALL_POSSESSION"
	StatShots        = "SHOTS"
	StatShotsOnGoal  = "SHOTS_ON_GOAL"
	StatShotsOffGoal = "SHOTS_OFF_GOAL"
	StatCorners      = "CORNER_KICKS"
	StatFouls        = "FOULS"
	StatOffsides     = "OFFSIDES"
	StatYellowCards  = "YELLOW_CARDS"
	StatRedCards     = "RED_CARDS"
	StatSaves        = "SAVES"
)

// UpstreamTeam is a club as the provider reports it.
type UpstreamTeam struct {
	ID        int64
	Name      string
	ShortName string
	Tla       string
	Crest     string
	Country   string
	Founded   *int
	Venue     string
}

// UpstreamLineupPlayer is one player in a lineup or bench list.
type UpstreamLineupPlayer struct {
	Name        string
	Position    string
	ShirtNumber *int
}

// UpstreamGoal, UpstreamBooking and UpstreamSubstitution are timeline
// entries from the fixture detail payload.
type UpstreamGoal struct {
	Minute      int
	ExtraMinute *int
	TeamID      int64
	Scorer      string
	Assist      string
	Type        string
}

type UpstreamBooking struct {
	Minute      int
	ExtraMinute *int
	TeamID      int64
	Player      string
	Card        string
}

type UpstreamSubstitution struct {
	Minute      int
	ExtraMinute *int
	TeamID      int64
	PlayerOut   string
	PlayerIn    string
}

// UpstreamSide is one side of a fixture, including detail-only fields.
type UpstreamSide struct {
	Team       UpstreamTeam
	Formation  string
	Coach      string
	Lineup     []UpstreamLineupPlayer
	Bench      []UpstreamLineupPlayer
	Statistics map[string]int
}

// UpstreamFixture is one fixture as the provider reports it. Listing
// endpoints leave the detail-only fields empty.
type UpstreamFixture struct {
	ID            int64
	LeagueID      int64
	LeagueName    string
	Matchday      int
	UTCDate       time.Time
	Status        string
	Venue         string
	Referee       string
	Attendance    *int
	Home          UpstreamSide
	Away          UpstreamSide
	HomeScore     *int
	AwayScore     *int
	HalfTimeHome  *int
	HalfTimeAway  *int
	Goals         []UpstreamGoal
	Bookings      []UpstreamBooking
	Substitutions []UpstreamSubstitution
}

// MatchDataProvider is the upstream fixture feed. Listing calls degrade to
// an empty slice on upstream failure; by-ID calls propagate errors, with
// rate limiting recognisable via errors.Is(err, ErrRateLimited).
type MatchDataProvider interface {
	TodayFixtures(ctx context.Context) ([]UpstreamFixture, error)
	FixturesByDateRange(ctx context.Context, from, to time.Time) ([]UpstreamFixture, error)
	FixtureByID(ctx context.Context, id int64) (UpstreamFixture, error)
	TeamByID(ctx context.Context, id int64) (UpstreamTeam, error)
	SearchTeams(ctx context.Context, query string) ([]UpstreamTeam, error)
}

// InsightGenerator produces commentary text for a match prompt. Wired from
// an external model provider; nil means the capability is absent.
type InsightGenerator interface {
	Generate(ctx context.Context, prompt string) (content string, tokensUsed int, err error)
}

// EventPublisher fans a payload out to every connection subscribed to a
// topic. Implementations must not block.
type EventPublisher interface {
	Publish(topic, event string, payload any)
}
