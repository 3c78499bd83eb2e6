package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtline/courtline/internal/announce"
	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/fouls"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/observability"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/scoreboard"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/testing/memstore"
	"github.com/courtline/courtline/internal/timeouts"
)

func testConfig() *Config {
	return &Config{
		AppEnv:             "test",
		CORSAllowedOrigins: []string{"*"},
		RateLimitPerMinute: 600,
	}
}

type routerFixture struct {
	handler http.Handler
	home    match.Team
	away    match.Team
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	db := memstore.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := broadcast.NewNotifier(&memstore.Recorder{}, logger)
	messages := announce.New("en")
	resolver := quarters.NewResolver(logger)

	periods := quarters.NewService(db.Quarters(), notifier, messages)
	score := scoring.NewService(db.Scoring(), resolver, notifier)
	board := scoreboard.NewService(periods, score,
		fouls.NewService(db.Fouls(), resolver, notifier),
		timeouts.NewService(db.Timeouts(), resolver, notifier),
		notifier)

	handler := NewRouter(RouterParams{
		Logger:            logger,
		Config:            testConfig(),
		Metrics:           observability.NewMetrics(),
		MatchHandler:      match.NewHandler(logger, match.NewService(db.Matches(), notifier, messages)),
		PeriodHandler:     quarters.NewHandler(logger, periods),
		ScoreHandler:      scoring.NewHandler(logger, score),
		ScoreboardHandler: scoreboard.NewHandler(logger, board),
	})
	return routerFixture{handler: handler, home: db.AddTeam("Toros"), away: db.AddTeam("Halcones")}
}

func (f routerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(t)
	rr := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestMetricsEndpointExposesHTTPCounters(t *testing.T) {
	f := newRouterFixture(t)
	f.do(t, http.MethodGet, "/healthz", "")

	rr := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "courtline_http_requests_total")
}

func TestMatchFlowThroughRouter(t *testing.T) {
	f := newRouterFixture(t)

	rr := f.do(t, http.MethodPost, "/api/matches",
		`{"homeTeamId":`+strconv.FormatInt(f.home.ID, 10)+`,"awayTeamId":`+strconv.FormatInt(f.away.ID, 10)+`}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var m match.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	base := "/api/matches/" + strconv.FormatInt(m.ID, 10)

	rr = f.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodPost, base+"/periods/start", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodPost, base+"/score/adjust",
		`{"teamId":`+strconv.FormatInt(f.home.ID, 10)+`,"delta":2}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodGet, base+"/scoreboard", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var snap scoreboard.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, 2, snap.Score.Home)
	assert.Equal(t, 1, snap.Period.Number)
}

func TestUnmountedRoutesAreNotFound(t *testing.T) {
	f := newRouterFixture(t)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/matches/1/fouls", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/ws", "").Code)
}
