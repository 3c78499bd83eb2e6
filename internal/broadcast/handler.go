package broadcast

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/courtline/courtline/internal/platform/httpx"
)

// Handler upgrades viewer connections and subscribes them to the hub.
type Handler struct {
	hub      *Hub
	ctx      context.Context
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs a websocket handler. Client pumps are bound to ctx
// rather than the request so they outlive the upgrade call. allowOrigin
// decides which browser origins may connect; nil allows all.
func NewHandler(ctx context.Context, hub *Hub, logger *slog.Logger, allowOrigin func(origin string) bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:    hub,
		ctx:    ctx,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
	}
}

// ServeHTTP handles GET /ws?match={id}. A missing or zero id subscribes to
// every match.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matchID, err := httpx.QueryID(r, "match")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", slog.Any("error", err))
		return
	}

	c := NewClient(uuid.NewString(), matchID, conn, h.hub, h.logger)
	h.hub.Register(c)

	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}
