package match

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtline/courtline/internal/platform/httpx"
	"github.com/courtline/courtline/internal/shared"
)

type matchService interface {
	Open(ctx context.Context, in OpenInput) (Match, bool, error)
	FindOpen(ctx context.Context, homeTeamID, awayTeamID int64) (Match, error)
	Get(ctx context.Context, matchID int64) (Match, error)
	UpdateSettings(ctx context.Context, matchID int64, settings Settings) (Match, error)
	Finalize(ctx context.Context, matchID int64) (Match, error)
	Reset(ctx context.Context, matchID int64) error
}

// Handler exposes the match lifecycle over HTTP.
type Handler struct {
	logger  *slog.Logger
	service matchService
}

// NewHandler constructs a match HTTP handler.
func NewHandler(logger *slog.Logger, service matchService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers routes below /matches.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.open)
	r.Get("/open", h.findOpen)
	r.Get("/{matchID}", h.get)
	r.Put("/{matchID}/settings", h.updateSettings)
	r.Post("/{matchID}/finalize", h.finalize)
	r.Delete("/{matchID}/reset", h.reset)
	r.Delete("/{matchID}", h.reset)
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	var in OpenInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	m, created, err := h.service.Open(r.Context(), in)
	if err != nil {
		h.fail(w, "open match", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, m)
}

func (h *Handler) findOpen(w http.ResponseWriter, r *http.Request) {
	home, err := httpx.QueryID(r, "home")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	away, err := httpx.QueryID(r, "away")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if home == 0 || away == 0 {
		httpx.RespondError(w, shared.Validationf("home and away are required"))
		return
	}
	m, err := h.service.FindOpen(r.Context(), home, away)
	if err != nil {
		h.fail(w, "find open match", err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	m, err := h.service.Get(r.Context(), matchID)
	if err != nil {
		h.fail(w, "get match", err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in Settings
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	m, err := h.service.UpdateSettings(r.Context(), matchID, in)
	if err != nil {
		h.fail(w, "update settings", err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	m, err := h.service.Finalize(r.Context(), matchID)
	if err != nil {
		h.fail(w, "finalize match", err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Reset(r.Context(), matchID); err != nil {
		h.fail(w, "reset match", err)
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
