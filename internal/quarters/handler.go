package quarters

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courtline/courtline/internal/platform/httpx"
	"github.com/courtline/courtline/internal/shared"
)

type periodService interface {
	Start(ctx context.Context, matchID int64) (Descriptor, error)
	Restart(ctx context.Context, matchID int64) (Descriptor, error)
	Finish(ctx context.Context, matchID int64) (Descriptor, error)
	SetNumber(ctx context.Context, matchID int64, n int) (Descriptor, error)
	Next(ctx context.Context, matchID int64) (Descriptor, error)
	Previous(ctx context.Context, matchID int64) error
	EnterOvertime(ctx context.Context, matchID int64) (Descriptor, error)
	Summary(ctx context.Context, matchID int64) (Descriptor, error)
}

// Handler exposes the period state machine over HTTP.
type Handler struct {
	logger  *slog.Logger
	service periodService
}

// NewHandler constructs a periods HTTP handler.
func NewHandler(logger *slog.Logger, service periodService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers routes below /matches/{matchID}/periods.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Post("/start", h.transition(h.service.Start))
	r.Post("/restart", h.transition(h.service.Restart))
	r.Post("/finish", h.transition(h.service.Finish))
	r.Post("/next", h.transition(h.service.Next))
	r.Post("/overtime", h.transition(h.service.EnterOvertime))
	r.Post("/previous", h.previous)
	r.Post("/set/{number}", h.setNumber)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	h.transition(h.service.Summary)(w, r)
}

func (h *Handler) transition(fn func(context.Context, int64) (Descriptor, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := httpx.IDParam(r, "matchID")
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		desc, err := fn(r.Context(), matchID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusOK, desc)
	}
}

func (h *Handler) setNumber(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	raw := chi.URLParam(r, "number")
	n, err := strconv.Atoi(raw)
	if err != nil {
		httpx.RespondError(w, shared.Validationf("invalid period number %q", raw))
		return
	}
	desc, err := h.service.SetNumber(r.Context(), matchID, n)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, desc)
}

func (h *Handler) previous(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.fail(w, r, h.service.Previous(r.Context(), matchID))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if shared.KindOf(err) == shared.KindFatal {
		h.logger.Error("period transition", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
