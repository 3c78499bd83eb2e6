package match_test

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtline/courtline/internal/announce"
	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/shared"
	"github.com/courtline/courtline/internal/testing/memstore"
)

type fixture struct {
	db       *memstore.DB
	recorder *memstore.Recorder
	service  *match.Service
	home     match.Team
	away     match.Team
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := memstore.New()
	rec := &memstore.Recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := match.NewService(db.Matches(), broadcast.NewNotifier(rec, logger), announce.New("en"))
	svc.WithNow(func() time.Time { return time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC) })
	return fixture{db: db, recorder: rec, service: svc, home: db.AddTeam("Toros"), away: db.AddTeam("Halcones")}
}

func (f fixture) open(t *testing.T) match.Match {
	t.Helper()
	m, created, err := f.service.Open(context.Background(), match.OpenInput{HomeTeamID: f.home.ID, AwayTeamID: f.away.ID})
	require.NoError(t, err)
	require.True(t, created)
	return m
}

func TestOpenCreatesPendingPeriods(t *testing.T) {
	f := newFixture(t)
	m := f.open(t)

	assert.Equal(t, match.StatusScheduled, m.Status)
	assert.Equal(t, match.DefaultMinutesPerPeriod, m.MinutesPerPeriod)
	assert.Equal(t, match.DefaultTotalPeriods, m.TotalPeriods)

	periods := f.db.Periods(m.ID)
	require.Len(t, periods, 4)
	for i, p := range periods {
		assert.Equal(t, i+1, p.Number)
		assert.Equal(t, quarters.StatusPending, p.Status)
		assert.Equal(t, 600, p.DurationSec)
		assert.False(t, p.Overtime)
	}
}

func TestOpenReturnsExistingMatch(t *testing.T) {
	f := newFixture(t)
	first := f.open(t)

	again, created, err := f.service.Open(context.Background(), match.OpenInput{HomeTeamID: f.home.ID, AwayTeamID: f.away.ID, TotalPeriods: 2})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, f.db.Periods(first.ID), 4)
}

func TestOpenRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.service.Open(ctx, match.OpenInput{HomeTeamID: f.home.ID, AwayTeamID: f.home.ID})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, _, err = f.service.Open(ctx, match.OpenInput{HomeTeamID: f.home.ID, AwayTeamID: 404})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestFindOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.FindOpen(ctx, f.home.ID, f.away.ID)
	require.ErrorIs(t, err, shared.ErrMatchNotFound)

	m := f.open(t)
	found, err := f.service.FindOpen(ctx, f.home.ID, f.away.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, found.ID)

	_, err = f.service.FindOpen(ctx, f.away.ID, f.home.ID)
	assert.ErrorIs(t, err, shared.ErrMatchNotFound, "home and away are not interchangeable")
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t)
	m := f.open(t)
	ctx := context.Background()

	updated, err := f.service.UpdateSettings(ctx, m.ID, match.Settings{MinutesPerPeriod: 12, TotalPeriods: 4})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.MinutesPerPeriod)

	_, err = f.service.UpdateSettings(ctx, m.ID, match.Settings{MinutesPerPeriod: 0, TotalPeriods: 4})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.service.UpdateSettings(ctx, m.ID+100, match.Settings{MinutesPerPeriod: 8, TotalPeriods: 4})
	assert.ErrorIs(t, err, shared.ErrMatchNotFound)
}

func TestFinalizeBroadcastsBaseState(t *testing.T) {
	f := newFixture(t)
	m := f.open(t)
	ctx := context.Background()

	done, err := f.service.Finalize(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusFinished, done.Status)
	require.NotNil(t, done.FinishedAt)

	assert.Equal(t, []string{
		broadcast.EventServerMessage,
		broadcast.EventMatchClosed,
		broadcast.EventTimerSync,
		broadcast.EventPeriodSync,
	}, f.recorder.Events())

	msgs := f.recorder.Messages()
	assert.Equal(t, broadcast.ServerText{Message: "Match #" + itoa(m.ID) + " finalized."}, msgs[0].Payload)
	assert.Equal(t, broadcast.MatchRef{MatchID: m.ID}, msgs[1].Payload)
	assert.Equal(t, match.TimerState{Phase: "stopped", DurationSec: 600, RemainingSec: 600}, msgs[2].Payload)
	assert.Equal(t, quarters.Descriptor{Number: 1, Total: 4}, msgs[3].Payload)

	_, err = f.service.FindOpen(ctx, f.home.ID, f.away.ID)
	assert.ErrorIs(t, err, shared.ErrMatchNotFound)

	_, created, err := f.service.Open(ctx, match.OpenInput{HomeTeamID: f.home.ID, AwayTeamID: f.away.ID})
	require.NoError(t, err)
	assert.True(t, created, "a finished match is not reused")
}

func TestResetDeletesEverything(t *testing.T) {
	f := newFixture(t)
	m := f.open(t)
	ctx := context.Background()

	periods := f.db.Periods(m.ID)
	_, err := f.db.Store().InsertScoreEvent(ctx, scoring.Event{MatchID: m.ID, PeriodID: periods[0].ID, TeamID: f.home.ID, Points: 2})
	require.NoError(t, err)

	require.NoError(t, f.service.Reset(ctx, m.ID))
	_, ok := f.db.Match(m.ID)
	assert.False(t, ok)
	assert.Empty(t, f.db.Periods(m.ID))
	assert.Empty(t, f.db.ScoreEvents(m.ID))

	msg, ok := f.recorder.Last(broadcast.EventMatchReset)
	require.True(t, ok)
	assert.Equal(t, broadcast.MatchRef{MatchID: m.ID}, msg.Payload)

	assert.ErrorIs(t, f.service.Reset(ctx, m.ID), shared.ErrMatchNotFound)
}

func TestInProgress(t *testing.T) {
	f := newFixture(t)
	m := f.open(t)
	ctx := context.Background()

	live, err := f.service.InProgress(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)

	require.NoError(t, f.db.Store().MarkMatchInProgress(ctx, m.ID, time.Now()))
	live, err = f.service.InProgress(ctx)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, m.ID, live[0].ID)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
