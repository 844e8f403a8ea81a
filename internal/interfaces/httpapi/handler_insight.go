package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/champi-dev/live-football/internal/usecase"
)

func (h *Handler) ListMatchInsights(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchInsights")
	defer span.End()

	matchID, err := parseMatchID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	insightType := strings.TrimSpace(r.URL.Query().Get("type"))
	items, err := h.insightService.ListByMatch(ctx, matchID, insightType)
	if err != nil {
		h.logger.WarnContext(ctx, "list insights failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]insightDTO, 0, len(items))
	for _, item := range items {
		out = append(out, insightToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

type generateInsightRequest struct {
	Type string `json:"type" validate:"required"`
}

func (h *Handler) GenerateMatchInsight(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateMatchInsight")
	defer span.End()

	matchID, err := parseMatchID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req generateInsightRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.insightService.Generate(ctx, matchID, req.Type)
	if err != nil {
		h.logger.WarnContext(ctx, "generate insight failed", "match_id", matchID, "type", req.Type, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, insightToDTO(item))
}
