package timeouts

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtline/courtline/internal/platform/httpx"
	"github.com/courtline/courtline/internal/shared"
)

type timeoutService interface {
	Adjust(ctx context.Context, in AdjustInput) (Summary, error)
	Summary(ctx context.Context, matchID int64) (Summary, error)
	Reset(ctx context.Context, matchID int64) (Summary, error)
}

// Handler exposes the timeout log over HTTP.
type Handler struct {
	logger  *slog.Logger
	service timeoutService
}

// NewHandler constructs a timeouts HTTP handler.
func NewHandler(logger *slog.Logger, service timeoutService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers routes below /matches/{matchID}/timeouts.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Post("/adjust", h.adjust)
	r.Delete("/reset", h.reset)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), matchID)
	if err != nil {
		h.fail(w, "timeout summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in AdjustInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	in.MatchID = matchID
	summary, err := h.service.Adjust(r.Context(), in)
	if err != nil {
		h.fail(w, "timeout adjust", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summary, err := h.service.Reset(r.Context(), matchID)
	if err != nil {
		h.fail(w, "timeout reset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if shared.KindOf(err) == shared.KindFatal {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
