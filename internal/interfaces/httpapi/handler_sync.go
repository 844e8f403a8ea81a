package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/champi-dev/live-football/internal/usecase"
)

func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	summary, err := h.scheduler.SyncNow(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

type syncRangeRequest struct {
	DateFrom string `json:"dateFrom" validate:"required"`
	DateTo   string `json:"dateTo" validate:"required"`
}

func (h *Handler) RunSyncRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncRange")
	defer span.End()

	var req syncRangeRequest
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

	from, err := time.Parse(queryDateLayout, req.DateFrom)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: dateFrom must use the YYYY-MM-DD format", usecase.ErrInvalidInput))
		return
	}
	to, err := time.Parse(queryDateLayout, req.DateTo)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: dateTo must use the YYYY-MM-DD format", usecase.ErrInvalidInput))
		return
	}

	summary, err := h.scheduler.SyncDateRange(ctx, from.UTC(), to.UTC())
	if err != nil {
		h.logger.ErrorContext(ctx, "range sync failed", "date_from", req.DateFrom, "date_to", req.DateTo, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncStatus")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.scheduler.Stats())
}

type setSyncEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (h *Handler) SetSyncEnabled(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSyncEnabled")
	defer span.End()

	var req setSyncEnabledRequest
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

	h.scheduler.SetEnabled(*req.Enabled)
	writeSuccess(ctx, w, http.StatusOK, h.scheduler.Stats())
}
