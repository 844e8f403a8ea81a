package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/champi-dev/live-football/internal/domain/match"
	"github.com/champi-dev/live-football/internal/usecase"
)

const queryDateLayout = "2006-01-02"

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	filter, err := parseMatchListFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	list, err := h.matchService.List(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, matchToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, matchListDTO{
		Items: items,
		Pagination: pageDTO{
			Page:       list.Page.Page,
			Limit:      list.Page.Limit,
			Total:      list.Page.Total,
			TotalPages: list.Page.TotalPages,
		},
	})
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveMatches")
	defer span.End()

	matches, err := h.matchService.ListLive(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, item := range matches {
		items = append(items, matchToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID, err := parseMatchID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailToDTO(detail))
}

func parseMatchID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("matchID"))
	matchID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || matchID <= 0 {
		return 0, fmt.Errorf("%w: match id must be a positive integer", usecase.ErrInvalidInput)
	}
	return matchID, nil
}

func parseMatchListFilter(r *http.Request) (match.ListFilter, error) {
	query := r.URL.Query()
	filter := match.ListFilter{
		Search: strings.TrimSpace(query.Get("search")),
	}

	if raw := strings.TrimSpace(query.Get("league_id")); raw != "" {
		leagueID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return match.ListFilter{}, fmt.Errorf("%w: league_id must be an integer", usecase.ErrInvalidInput)
		}
		filter.LeagueID = &leagueID
	}
	if raw := strings.TrimSpace(query.Get("team_id")); raw != "" {
		teamID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return match.ListFilter{}, fmt.Errorf("%w: team_id must be an integer", usecase.ErrInvalidInput)
		}
		filter.TeamID = &teamID
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		for _, status := range strings.Split(raw, ",") {
			status = strings.ToUpper(strings.TrimSpace(status))
			if status != "" {
				filter.Statuses = append(filter.Statuses, status)
			}
		}
	}

	var err error
	if filter.Date, err = parseDateQuery(query.Get("date")); err != nil {
		return match.ListFilter{}, err
	}
	if filter.DateFrom, err = parseDateQuery(query.Get("date_from")); err != nil {
		return match.ListFilter{}, err
	}
	if filter.DateTo, err = parseDateQuery(query.Get("date_to")); err != nil {
		return match.ListFilter{}, err
	}

	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return match.ListFilter{}, fmt.Errorf("%w: page must be a positive integer", usecase.ErrInvalidInput)
		}
		filter.Page = page
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return match.ListFilter{}, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput)
		}
		filter.Limit = limit
	}

	return filter, nil
}

func parseDateQuery(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: dates must use the YYYY-MM-DD format", usecase.ErrInvalidInput)
	}
	parsed = parsed.UTC()
	return &parsed, nil
}
