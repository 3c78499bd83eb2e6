package scoring

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtline/courtline/internal/platform/httpx"
	"github.com/courtline/courtline/internal/shared"
)

type scoreService interface {
	Adjust(ctx context.Context, in AdjustInput) (Totals, error)
	Totals(ctx context.Context, matchID int64) (Totals, error)
	Reset(ctx context.Context, matchID int64) (Totals, error)
}

// Handler exposes the score log over HTTP.
type Handler struct {
	logger  *slog.Logger
	service scoreService
}

// NewHandler constructs a score HTTP handler.
func NewHandler(logger *slog.Logger, service scoreService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers routes below /matches/{matchID}/score.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.totals)
	r.Post("/adjust", h.adjust)
	r.Delete("/reset", h.reset)
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	totals, err := h.service.Totals(r.Context(), matchID)
	if err != nil {
		h.fail(w, "score totals", err)
		return
	}
	httpx.JSON(w, http.StatusOK, totals)
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
	totals, err := h.service.Adjust(r.Context(), in)
	if err != nil {
		h.fail(w, "score adjust", err)
		return
	}
	httpx.JSON(w, http.StatusOK, totals)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	totals, err := h.service.Reset(r.Context(), matchID)
	if err != nil {
		h.fail(w, "score reset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, totals)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if shared.KindOf(err) == shared.KindFatal {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
