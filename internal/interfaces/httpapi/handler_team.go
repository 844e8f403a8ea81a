package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/champi-dev/live-football/internal/usecase"
)

func (h *Handler) SearchTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchTeams")
	defer span.End()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	teams, err := h.teamService.SearchTeams(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "search teams failed", "query", query, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, item := range teams {
		items = append(items, teamToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID, err := parseTeamID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

type followTeamRequest struct {
	NotifyMatchStart *bool `json:"notifyMatchStart"`
	NotifyGoals      *bool `json:"notifyGoals"`
	NotifyFinalScore *bool `json:"notifyFinalScore"`
}

func (h *Handler) FollowTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FollowTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID, err := parseTeamID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req followTeamRequest
	if r.Body != nil && r.ContentLength != 0 {
		decoder := sonic.ConfigDefault.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
			return
		}
	}

	item, err := h.teamService.FollowTeam(ctx, usecase.FollowInput{
		UserID:           principal.UserID,
		TeamID:           teamID,
		NotifyMatchStart: req.NotifyMatchStart,
		NotifyGoals:      req.NotifyGoals,
		NotifyFinalScore: req.NotifyFinalScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "follow team failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, followToDTO(item))
}

func (h *Handler) UnfollowTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnfollowTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID, err := parseTeamID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.teamService.UnfollowTeam(ctx, principal.UserID, teamID); err != nil {
		h.logger.WarnContext(ctx, "unfollow team failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"unfollowed": true})
}

func (h *Handler) ListMyFollows(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyFollows")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	follows, err := h.teamService.ListFollows(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list follows failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]followDTO, 0, len(follows))
	for _, item := range follows {
		items = append(items, followToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseTeamID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("teamID"))
	teamID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || teamID <= 0 {
		return 0, fmt.Errorf("%w: team id must be a positive integer", usecase.ErrInvalidInput)
	}
	return teamID, nil
}
