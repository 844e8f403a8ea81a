package footballdata

import (
	"sort"
	"strings"
	"time"

	"github.com/champi-dev/live-football/internal/usecase"
)

type matchesEnvelope struct {
	Matches []matchPayload `json:"matches"`
}

type competitionTeamsEnvelope struct {
	Teams []upstreamTeamRow `json:"teams"`
}

type matchPayload struct {
	ID            int64             `json:"id"`
	UTCDate       string            `json:"utcDate"`
	Status        string            `json:"status"`
	Matchday      int               `json:"matchday"`
	Venue         string            `json:"venue"`
	Attendance    *int              `json:"attendance"`
	Competition   competitionRow    `json:"competition"`
	HomeTeam      matchTeamRow      `json:"homeTeam"`
	AwayTeam      matchTeamRow      `json:"awayTeam"`
	Score         scorePayload      `json:"score"`
	Goals         []goalRow         `json:"goals"`
	Bookings      []bookingRow      `json:"bookings"`
	Substitutions []substitutionRow `json:"substitutions"`
	Referees      []refereeRow      `json:"referees"`
}

type competitionRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type matchTeamRow struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	ShortName  string          `json:"shortName"`
	Tla        string          `json:"tla"`
	Crest      string          `json:"crest"`
	Formation  string          `json:"formation"`
	Coach      coachRow        `json:"coach"`
	Lineup     []lineupRow     `json:"lineup"`
	Bench      []lineupRow     `json:"bench"`
	Statistics map[string]*int `json:"statistics"`
}

type coachRow struct {
	Name string `json:"name"`
}

type lineupRow struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	ShirtNumber *int   `json:"shirtNumber"`
}

type scorePayload struct {
	Winner   string    `json:"winner"`
	FullTime scorePair `json:"fullTime"`
	HalfTime scorePair `json:"halfTime"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type goalRow struct {
	Minute     int      `json:"minute"`
	InjuryTime *int     `json:"injuryTime"`
	Type       string   `json:"type"`
	Team       idRef    `json:"team"`
	Scorer     nameRef  `json:"scorer"`
	Assist     *nameRef `json:"assist"`
}

type bookingRow struct {
	Minute int     `json:"minute"`
	Team   idRef   `json:"team"`
	Player nameRef `json:"player"`
	Card   string  `json:"card"`
}

type substitutionRow struct {
	Minute    int     `json:"minute"`
	Team      idRef   `json:"team"`
	PlayerOut nameRef `json:"playerOut"`
	PlayerIn  nameRef `json:"playerIn"`
}

type refereeRow struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type idRef struct {
	ID int64 `json:"id"`
}

type nameRef struct {
	Name string `json:"name"`
}

type teamPayload struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ShortName string  `json:"shortName"`
	Tla       string  `json:"tla"`
	Crest     string  `json:"crest"`
	Founded   *int    `json:"founded"`
	Venue     string  `json:"venue"`
	Area      areaRow `json:"area"`
}

type upstreamTeamRow struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ShortName string  `json:"shortName"`
	Tla       string  `json:"tla"`
	Crest     string  `json:"crest"`
	Founded   *int    `json:"founded"`
	Venue     string  `json:"venue"`
	Area      areaRow `json:"area"`
}

type areaRow struct {
	Name string `json:"name"`
}

func mapFixtures(rows []matchPayload) []usecase.UpstreamFixture {
	out := make([]usecase.UpstreamFixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapFixture(row))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UTCDate.Equal(out[j].UTCDate) {
			return out[i].UTCDate.Before(out[j].UTCDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func mapFixture(row matchPayload) usecase.UpstreamFixture {
	fx := usecase.UpstreamFixture{
		ID:           row.ID,
		LeagueID:     row.Competition.ID,
		LeagueName:   row.Competition.Name,
		Matchday:     row.Matchday,
		Status:       row.Status,
		Venue:        row.Venue,
		Attendance:   row.Attendance,
		Referee:      mainReferee(row.Referees),
		Home:         mapSide(row.HomeTeam),
		Away:         mapSide(row.AwayTeam),
		HomeScore:    row.Score.FullTime.Home,
		AwayScore:    row.Score.FullTime.Away,
		HalfTimeHome: row.Score.HalfTime.Home,
		HalfTimeAway: row.Score.HalfTime.Away,
	}
	if parsed := parseProviderDateTime(row.UTCDate); parsed != nil {
		fx.UTCDate = *parsed
	}

	for _, g := range row.Goals {
		goal := usecase.UpstreamGoal{
			Minute:      g.Minute,
			ExtraMinute: g.InjuryTime,
			TeamID:      g.Team.ID,
			Scorer:      g.Scorer.Name,
			Type:        g.Type,
		}
		if g.Assist != nil {
			goal.Assist = g.Assist.Name
		}
		fx.Goals = append(fx.Goals, goal)
	}
	for _, b := range row.Bookings {
		fx.Bookings = append(fx.Bookings, usecase.UpstreamBooking{
			Minute: b.Minute,
			TeamID: b.Team.ID,
			Player: b.Player.Name,
			Card:   b.Card,
		})
	}
	for _, s := range row.Substitutions {
		fx.Substitutions = append(fx.Substitutions, usecase.UpstreamSubstitution{
			Minute:    s.Minute,
			TeamID:    s.Team.ID,
			PlayerOut: s.PlayerOut.Name,
			PlayerIn:  s.PlayerIn.Name,
		})
	}

	return fx
}

func mapSide(row matchTeamRow) usecase.UpstreamSide {
	side := usecase.UpstreamSide{
		Team: usecase.UpstreamTeam{
			ID:        row.ID,
			Name:      row.Name,
			ShortName: row.ShortName,
			Tla:       row.Tla,
			Crest:     row.Crest,
		},
		Formation: row.Formation,
		Coach:     row.Coach.Name,
	}
	for _, p := range row.Lineup {
		side.Lineup = append(side.Lineup, usecase.UpstreamLineupPlayer{
			Name:        p.Name,
			Position:    p.Position,
			ShirtNumber: p.ShirtNumber,
		})
	}
	for _, p := range row.Bench {
		side.Bench = append(side.Bench, usecase.UpstreamLineupPlayer{
			Name:        p.Name,
			Position:    p.Position,
			ShirtNumber: p.ShirtNumber,
		})
	}
	if len(row.Statistics) > 0 {
		side.Statistics = make(map[string]int, len(row.Statistics))
		for key, value := range row.Statistics {
			if value == nil {
				continue
			}
			side.Statistics[strings.ToUpper(key)] = *value
		}
	}
	return side
}

func mapTeamPayload(row teamPayload) usecase.UpstreamTeam {
	return usecase.UpstreamTeam{
		ID:        row.ID,
		Name:      row.Name,
		ShortName: row.ShortName,
		Tla:       row.Tla,
		Crest:     row.Crest,
		Country:   row.Area.Name,
		Founded:   row.Founded,
		Venue:     row.Venue,
	}
}

func mapTeamRow(row upstreamTeamRow) usecase.UpstreamTeam {
	return mapTeamPayload(teamPayload(row))
}

func mainReferee(rows []refereeRow) string {
	for _, row := range rows {
		if strings.EqualFold(row.Type, "REFEREE") {
			return row.Name
		}
	}
	if len(rows) > 0 {
		return rows[0].Name
	}
	return ""
}

var providerTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseProviderDateTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range providerTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}
