package scoreboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtline/courtline/internal/platform/httpx"
	"github.com/courtline/courtline/internal/shared"
)

type snapshotService interface {
	Snapshot(ctx context.Context, matchID int64) (Snapshot, error)
}

// Handler serves the scoreboard snapshot.
type Handler struct {
	logger  *slog.Logger
	service snapshotService
}

// NewHandler constructs a scoreboard HTTP handler.
func NewHandler(logger *slog.Logger, service snapshotService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers routes below /matches.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{matchID}/scoreboard", h.snapshot)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.IDParam(r, "matchID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	snap, err := h.service.Snapshot(r.Context(), matchID)
	if err != nil {
		if shared.KindOf(err) == shared.KindFatal {
			h.logger.Error("scoreboard snapshot", slog.Int64("match_id", matchID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httpx.JSON(w, http.StatusOK, snap)
}
