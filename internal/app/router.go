package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/courtline/courtline/internal/clock"
	"github.com/courtline/courtline/internal/fouls"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/observability"
	"github.com/courtline/courtline/internal/platform/httpx"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/scoreboard"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/timeouts"
	"github.com/courtline/courtline/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	MatchHandler      *match.Handler
	PeriodHandler     *quarters.Handler
	ScoreHandler      *scoring.Handler
	FoulHandler       *fouls.Handler
	TimeoutHandler    *timeouts.Handler
	ClockHandler      *clock.Handler
	ScoreboardHandler *scoreboard.Handler
	JobHandler        *jobs.Handler

	// Socket serves websocket subscriptions; nil disables /ws.
	Socket http.Handler
}

// NewRouter constructs the chi.Router with Courtline defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.Socket != nil {
		r.Handle("/ws", params.Socket)
	}

	r.Group(func(r chi.Router) {
		for _, mw := range APIMiddleware(params.Config) {
			r.Use(mw)
		}
		r.Route("/api/matches", func(r chi.Router) {
			if params.MatchHandler != nil {
				params.MatchHandler.MountRoutes(r)
			}
			if params.ScoreboardHandler != nil {
				params.ScoreboardHandler.MountRoutes(r)
			}
			if params.PeriodHandler != nil {
				r.Route("/{matchID}/periods", params.PeriodHandler.MountRoutes)
			}
			if params.ScoreHandler != nil {
				r.Route("/{matchID}/score", params.ScoreHandler.MountRoutes)
			}
			if params.FoulHandler != nil {
				r.Route("/{matchID}/fouls", params.FoulHandler.MountRoutes)
			}
			if params.TimeoutHandler != nil {
				r.Route("/{matchID}/timeouts", params.TimeoutHandler.MountRoutes)
			}
			if params.ClockHandler != nil {
				r.Route("/{matchID}/clock", params.ClockHandler.MountRoutes)
			}
		})
		if params.JobHandler != nil {
			r.Route("/api/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
