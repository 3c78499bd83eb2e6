package clock

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtline/courtline/internal/platform/httpx"
	"github.com/courtline/courtline/internal/shared"
)

type clockService interface {
	Record(ctx context.Context, in RecordInput) (Event, error)
	Events(ctx context.Context, matchID int64) ([]Event, error)
	Reset(ctx context.Context, matchID int64) error
}

// Handler exposes clock events over HTTP.
type Handler struct {
	logger  *slog.Logger
	service clockService
}

// NewHandler constructs a clock HTTP handler.
func NewHandler(logger *slog.Logger, service clockService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers routes below /matches/{matchID}/clock.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/events", h.list)
	r.Post("/events", h.record)
	r.Delete("/reset", h.reset)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	events, err := h.service.Events(r.Context(), matchID)
	if err != nil {
		h.fail(w, "clock events", err)
		return
	}
	httpx.JSON(w, http.StatusOK, events)
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in RecordInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	in.MatchID = matchID
	event, err := h.service.Record(r.Context(), in)
	if err != nil {
		h.fail(w, "clock record", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, event)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Reset(r.Context(), matchID); err != nil {
		h.fail(w, "clock reset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if shared.KindOf(err) == shared.KindFatal {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
