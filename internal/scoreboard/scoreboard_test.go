package scoreboard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/fouls"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/scoreboard"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/shared"
	"github.com/courtline/courtline/internal/testing/memstore"
	"github.com/courtline/courtline/internal/timeouts"
)

type harness struct {
	recorder *memstore.Recorder
	periods  *quarters.Service
	score    *scoring.Service
	fouls    *fouls.Service
	timeouts *timeouts.Service
	board    *scoreboard.Service
	matchID  int64
	home     int64
	player   int64
}

func newHarness(t *testing.T) harness {
	t.Helper()
	db := memstore.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &memstore.Recorder{}
	notifier := broadcast.NewNotifier(rec, logger)
	resolver := quarters.NewResolver(logger)

	home := db.AddTeam("Toros")
	away := db.AddTeam("Halcones")
	player := db.AddPlayer(home.ID, 9, "Ana Ruiz")
	m, _, err := match.NewService(db.Matches(), notifier, nil).Open(context.Background(), match.OpenInput{HomeTeamID: home.ID, AwayTeamID: away.ID})
	require.NoError(t, err)

	h := harness{
		recorder: rec,
		periods:  quarters.NewService(db.Quarters(), notifier, nil),
		score:    scoring.NewService(db.Scoring(), resolver, notifier),
		fouls:    fouls.NewService(db.Fouls(), resolver, notifier),
		timeouts: timeouts.NewService(db.Timeouts(), resolver, notifier),
		matchID:  m.ID,
		home:     home.ID,
		player:   player.ID,
	}
	h.board = scoreboard.NewService(h.periods, h.score, h.fouls, h.timeouts, notifier)
	h.board.WithNow(func() time.Time { return time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC) })
	return h
}

func TestSnapshotCombinesEveryLog(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.periods.Start(ctx, h.matchID)
	require.NoError(t, err)
	_, err = h.score.Adjust(ctx, scoring.AdjustInput{MatchID: h.matchID, TeamID: h.home, Delta: 3})
	require.NoError(t, err)
	_, err = h.fouls.Adjust(ctx, fouls.AdjustInput{MatchID: h.matchID, TeamID: h.home, PlayerID: h.player, Delta: 1})
	require.NoError(t, err)
	_, err = h.timeouts.Adjust(ctx, timeouts.AdjustInput{MatchID: h.matchID, TeamID: h.home, Kind: timeouts.KindLong, Delta: 1})
	require.NoError(t, err)

	snap, err := h.board.Snapshot(ctx, h.matchID)
	require.NoError(t, err)
	assert.Equal(t, h.matchID, snap.MatchID)
	assert.Equal(t, 1, snap.Period.Number)
	assert.Equal(t, quarters.StatusActive, snap.Period.Status)
	assert.Equal(t, 3, snap.Score.Home)
	assert.Equal(t, 1, snap.Fouls.Home.Total)
	assert.Equal(t, 1, snap.Timeouts.Home.Long)
	assert.Equal(t, time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC), snap.GeneratedAt)
}

func TestPublishSendsScoreboardSync(t *testing.T) {
	h := newHarness(t)
	h.recorder.Reset()

	snap, err := h.board.Publish(context.Background(), h.matchID)
	require.NoError(t, err)

	msg, ok := h.recorder.Last(broadcast.EventScoreboard)
	require.True(t, ok)
	assert.Equal(t, snap, msg.Payload)
	assert.Equal(t, h.matchID, msg.MatchID)
}

func TestSnapshotUnknownMatch(t *testing.T) {
	h := newHarness(t)

	_, err := h.board.Snapshot(context.Background(), h.matchID+100)
	require.ErrorIs(t, err, shared.ErrMatchNotFound)

	_, err = h.board.Publish(context.Background(), h.matchID+100)
	require.Error(t, err)
	_, ok := h.recorder.Last(broadcast.EventScoreboard)
	assert.False(t, ok)
}

type failingPeriods struct{ err error }

func (f failingPeriods) Summary(ctx context.Context, matchID int64) (quarters.Descriptor, error) {
	return quarters.Descriptor{}, f.err
}

func TestHandler(t *testing.T) {
	h := newHarness(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := chi.NewRouter()
	router.Route("/matches", scoreboard.NewHandler(logger, h.board).MountRoutes)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/matches/"+itoa(h.matchID)+"/scoreboard", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Contains(t, rr.Body.String(), `"score":{"matchId"`)

	broken := scoreboard.NewService(failingPeriods{err: errors.New("pool closed")}, h.score, h.fouls, h.timeouts, nil)
	router = chi.NewRouter()
	router.Route("/matches", scoreboard.NewHandler(logger, broken).MountRoutes)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/matches/"+itoa(h.matchID)+"/scoreboard", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
