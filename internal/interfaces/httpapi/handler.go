package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/champi-dev/live-football/internal/domain/follow"
	"github.com/champi-dev/live-football/internal/domain/insight"
	"github.com/champi-dev/live-football/internal/domain/lineup"
	"github.com/champi-dev/live-football/internal/domain/match"
	"github.com/champi-dev/live-football/internal/domain/matchevent"
	"github.com/champi-dev/live-football/internal/domain/matchstat"
	"github.com/champi-dev/live-football/internal/domain/team"
	"github.com/champi-dev/live-football/internal/platform/logging"
	"github.com/champi-dev/live-football/internal/realtime"
	"github.com/champi-dev/live-football/internal/usecase"
)

type Handler struct {
	matchService   *usecase.MatchQueryService
	teamService    *usecase.TeamService
	insightService *usecase.InsightService
	scheduler      *usecase.SyncSchedulerService
	hub            *realtime.Hub
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchQueryService,
	teamService *usecase.TeamService,
	insightService *usecase.InsightService,
	scheduler *usecase.SyncSchedulerService,
	hub *realtime.Hub,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:   matchService,
		teamService:    teamService,
		insightService: insightService,
		scheduler:      scheduler,
		hub:            hub,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type matchDTO struct {
	ID                int64  `json:"id"`
	LeagueID          int64  `json:"leagueId"`
	LeagueName        string `json:"leagueName"`
	HomeTeamID        int64  `json:"homeTeamId"`
	AwayTeamID        int64  `json:"awayTeamId"`
	KickoffAt         string `json:"kickoffAt"`
	Status            string `json:"status"`
	HomeScore         int    `json:"homeScore"`
	AwayScore         int    `json:"awayScore"`
	HalfTimeHomeScore *int   `json:"halfTimeHomeScore"`
	HalfTimeAwayScore *int   `json:"halfTimeAwayScore"`
	ElapsedMinute     *int   `json:"elapsedMinute"`
	Venue             string `json:"venue"`
	Referee           string `json:"referee"`
	Attendance        *int   `json:"attendance"`
	HomeFormation     string `json:"homeFormation"`
	AwayFormation     string `json:"awayFormation"`
	HomeCoach         string `json:"homeCoach"`
	AwayCoach         string `json:"awayCoach"`
	Matchday          int    `json:"matchday"`
	LastSyncedAt      string `json:"lastSyncedAt"`
}

type pageDTO struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type matchListDTO struct {
	Items      []matchDTO `json:"items"`
	Pagination pageDTO    `json:"pagination"`
}

type matchDetailDTO struct {
	matchDTO
	HomeTeam *teamDTO         `json:"homeTeam"`
	AwayTeam *teamDTO         `json:"awayTeam"`
	Events   []matchEventDTO  `json:"events"`
	Lineups  []lineupEntryDTO `json:"lineups"`
	Stats    *matchStatsDTO   `json:"stats"`
	Insights []insightDTO     `json:"insights"`
}

type teamDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Tla       string `json:"tla"`
	CrestURL  string `json:"crestUrl"`
	Country   string `json:"country"`
	Founded   *int   `json:"founded"`
	Venue     string `json:"venue"`
	IsMajor   bool   `json:"isMajor"`
}

type matchEventDTO struct {
	TeamID      int64  `json:"teamId"`
	Type        string `json:"type"`
	Minute      int    `json:"minute"`
	ExtraMinute *int   `json:"extraMinute"`
	PlayerName  string `json:"playerName"`
	AssistName  string `json:"assistName"`
	Detail      string `json:"detail"`
}

type lineupEntryDTO struct {
	TeamID      int64  `json:"teamId"`
	PlayerName  string `json:"playerName"`
	Position    string `json:"position"`
	ShirtNumber *int   `json:"shirtNumber"`
	IsStarting  bool   `json:"isStarting"`
}

type matchStatsDTO struct {
	HomePossession *int `json:"homePossession"`
	AwayPossession *int `json:"awayPossession"`
	HomeShots      *int `json:"homeShots"`
	AwayShots      *int `json:"awayShots"`
	HomeShotsOn    *int `json:"homeShotsOnGoal"`
	AwayShotsOn    *int `json:"awayShotsOnGoal"`
	HomeShotsOff   *int `json:"homeShotsOffGoal"`
	AwayShotsOff   *int `json:"awayShotsOffGoal"`
	HomeCorners    *int `json:"homeCorners"`
	AwayCorners    *int `json:"awayCorners"`
	HomeFouls      *int `json:"homeFouls"`
	AwayFouls      *int `json:"awayFouls"`
	HomeOffsides   *int `json:"homeOffsides"`
	AwayOffsides   *int `json:"awayOffsides"`
	HomeYellows    *int `json:"homeYellowCards"`
	AwayYellows    *int `json:"awayYellowCards"`
	HomeReds       *int `json:"homeRedCards"`
	AwayReds       *int `json:"awayRedCards"`
	HomeSaves      *int `json:"homeSaves"`
	AwaySaves      *int `json:"awaySaves"`
}

type insightDTO struct {
	ID         string `json:"id"`
	MatchID    int64  `json:"matchId"`
	Type       string `json:"type"`
	Content    string `json:"content"`
	TokensUsed *int   `json:"tokensUsed"`
	AsOfMinute *int   `json:"asOfMinute"`
	CreatedAt  string `json:"createdAt"`
}

type followDTO struct {
	UserID           string `json:"userId"`
	TeamID           int64  `json:"teamId"`
	NotifyMatchStart bool   `json:"notifyMatchStart"`
	NotifyGoals      bool   `json:"notifyGoals"`
	NotifyFinalScore bool   `json:"notifyFinalScore"`
	CreatedAt        string `json:"createdAt"`
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:                v.ID,
		LeagueID:          v.LeagueID,
		LeagueName:        v.LeagueName,
		HomeTeamID:        v.HomeTeamID,
		AwayTeamID:        v.AwayTeamID,
		KickoffAt:         v.KickoffAt.UTC().Format(time.RFC3339),
		Status:            v.Status,
		HomeScore:         v.HomeScore,
		AwayScore:         v.AwayScore,
		HalfTimeHomeScore: v.HalfTimeHomeScore,
		HalfTimeAwayScore: v.HalfTimeAwayScore,
		ElapsedMinute:     v.ElapsedMinute,
		Venue:             v.Venue,
		Referee:           v.Referee,
		Attendance:        v.Attendance,
		HomeFormation:     v.HomeFormation,
		AwayFormation:     v.AwayFormation,
		HomeCoach:         v.HomeCoach,
		AwayCoach:         v.AwayCoach,
		Matchday:          v.Matchday,
		LastSyncedAt:      v.LastSyncedAt.UTC().Format(time.RFC3339),
	}
}

func matchDetailToDTO(v usecase.MatchDetail) matchDetailDTO {
	out := matchDetailDTO{
		matchDTO: matchToDTO(v.Match),
		Events:   make([]matchEventDTO, 0, len(v.Events)),
		Lineups:  make([]lineupEntryDTO, 0, len(v.Lineups)),
		Insights: make([]insightDTO, 0, len(v.Insights)),
	}

	if v.HomeTeam.ID != 0 {
		home := teamToDTO(v.HomeTeam)
		out.HomeTeam = &home
	}
	if v.AwayTeam.ID != 0 {
		away := teamToDTO(v.AwayTeam)
		out.AwayTeam = &away
	}
	for _, e := range v.Events {
		out.Events = append(out.Events, matchEventToDTO(e))
	}
	for _, entry := range v.Lineups {
		out.Lineups = append(out.Lineups, lineupEntryToDTO(entry))
	}
	if v.Stats != nil {
		stats := matchStatsToDTO(*v.Stats)
		out.Stats = &stats
	}
	for _, item := range v.Insights {
		out.Insights = append(out.Insights, insightToDTO(item))
	}
	return out
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:        v.ID,
		Name:      v.Name,
		ShortName: v.ShortName,
		Tla:       v.Tla,
		CrestURL:  v.CrestURL,
		Country:   v.Country,
		Founded:   v.Founded,
		Venue:     v.Venue,
		IsMajor:   v.IsMajor,
	}
}

func matchEventToDTO(v matchevent.Event) matchEventDTO {
	return matchEventDTO{
		TeamID:      v.TeamID,
		Type:        v.Type,
		Minute:      v.Minute,
		ExtraMinute: v.ExtraMinute,
		PlayerName:  v.PlayerName,
		AssistName:  v.AssistName,
		Detail:      v.Detail,
	}
}

func lineupEntryToDTO(v lineup.Entry) lineupEntryDTO {
	return lineupEntryDTO{
		TeamID:      v.TeamID,
		PlayerName:  v.PlayerName,
		Position:    v.Position,
		ShirtNumber: v.ShirtNumber,
		IsStarting:  v.IsStarting,
	}
}

func matchStatsToDTO(v matchstat.Stats) matchStatsDTO {
	return matchStatsDTO{
		HomePossession: v.HomePossession,
		AwayPossession: v.AwayPossession,
		HomeShots:      v.HomeShots,
		AwayShots:      v.AwayShots,
		HomeShotsOn:    v.HomeShotsOn,
		AwayShotsOn:    v.AwayShotsOn,
		HomeShotsOff:   v.HomeShotsOff,
		AwayShotsOff:   v.AwayShotsOff,
		HomeCorners:    v.HomeCorners,
		AwayCorners:    v.AwayCorners,
		HomeFouls:      v.HomeFouls,
		AwayFouls:      v.AwayFouls,
		HomeOffsides:   v.HomeOffsides,
		AwayOffsides:   v.AwayOffsides,
		HomeYellows:    v.HomeYellows,
		AwayYellows:    v.AwayYellows,
		HomeReds:       v.HomeReds,
		AwayReds:       v.AwayReds,
		HomeSaves:      v.HomeSaves,
		AwaySaves:      v.AwaySaves,
	}
}

func insightToDTO(v insight.Insight) insightDTO {
	return insightDTO{
		ID:         v.ID,
		MatchID:    v.MatchID,
		Type:       v.Type,
		Content:    v.Content,
		TokensUsed: v.TokensUsed,
		AsOfMinute: v.AsOfMinute,
		CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func followToDTO(v follow.Follow) followDTO {
	return followDTO{
		UserID:           v.UserID,
		TeamID:           v.TeamID,
		NotifyMatchStart: v.NotifyMatchStart,
		NotifyGoals:      v.NotifyGoals,
		NotifyFinalScore: v.NotifyFinalScore,
		CreatedAt:        v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
