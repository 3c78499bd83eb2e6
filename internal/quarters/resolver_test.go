package quarters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/shared"
	"github.com/courtline/courtline/internal/testing/memstore"
)

func ptr[T any](v T) *T { return &v }

// bareMatch inserts a match without any periods.
func bareMatch(t *testing.T, db *memstore.DB, minutes int) int64 {
	t.Helper()
	home := db.AddTeam("Toros")
	away := db.AddTeam("Halcones")
	m, err := db.Store().InsertMatch(context.Background(), match.Match{
		HomeTeamID:       home.ID,
		AwayTeamID:       away.ID,
		MinutesPerPeriod: minutes,
		TotalPeriods:     4,
		Status:           match.StatusScheduled,
	})
	require.NoError(t, err)
	return m.ID
}

func TestResolveExplicitIDWins(t *testing.T) {
	db := memstore.New()
	matchID := bareMatch(t, db, 10)
	r := quarters.NewResolver(discardLogger())

	id, err := r.Resolve(context.Background(), db.Store(), matchID, quarters.Context{
		PeriodID: ptr(int64(999)),
		Number:   ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(999), id)
	assert.Empty(t, db.Periods(matchID), "an explicit id is not checked or created")
}

func TestResolveByNumberCreatesPending(t *testing.T) {
	db := memstore.New()
	matchID := bareMatch(t, db, 10)
	r := quarters.NewResolver(discardLogger())
	ctx := context.Background()

	id, err := r.Resolve(ctx, db.Store(), matchID, quarters.Context{Number: ptr(3)})
	require.NoError(t, err)
	again, err := r.Resolve(ctx, db.Store(), matchID, quarters.Context{Number: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	overtimeID, err := r.Resolve(ctx, db.Store(), matchID, quarters.Context{Number: ptr(5), Overtime: ptr(true)})
	require.NoError(t, err)

	periods := db.Periods(matchID)
	require.Len(t, periods, 2)
	assert.Equal(t, quarters.Period{
		ID: id, MatchID: matchID, Number: 3, DurationSec: 600, RemainingSec: 600, Status: quarters.StatusPending,
	}, periods[0])
	assert.Equal(t, overtimeID, periods[1].ID)
	assert.True(t, periods[1].Overtime)
	assert.Equal(t, 300, periods[1].DurationSec)
}

func TestResolveFloorsShortPeriods(t *testing.T) {
	db := memstore.New()
	matchID := bareMatch(t, db, 0)
	r := quarters.NewResolver(discardLogger())

	_, err := r.Resolve(context.Background(), db.Store(), matchID, quarters.Context{Number: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, 60, db.Periods(matchID)[0].DurationSec)
}

func TestResolvePrefersActivePeriod(t *testing.T) {
	db := memstore.New()
	matchID := bareMatch(t, db, 10)
	r := quarters.NewResolver(discardLogger())
	ctx := context.Background()

	active, err := db.Store().InsertPeriod(ctx, quarters.Period{
		MatchID: matchID, Number: 2, DurationSec: 600, RemainingSec: 600, Status: quarters.StatusActive,
	})
	require.NoError(t, err)

	id, err := r.Resolve(ctx, db.Store(), matchID, quarters.Context{})
	require.NoError(t, err)
	assert.Equal(t, active.ID, id)
}

func TestResolveFallsBackToPeriodOne(t *testing.T) {
	db := memstore.New()
	matchID := bareMatch(t, db, 10)
	r := quarters.NewResolver(discardLogger())
	ctx := context.Background()

	id, err := r.Resolve(ctx, db.Store(), matchID, quarters.Context{Overtime: ptr(true)})
	require.NoError(t, err)

	periods := db.Periods(matchID)
	require.Len(t, periods, 1)
	assert.Equal(t, id, periods[0].ID)
	assert.Equal(t, 1, periods[0].Number)
	assert.False(t, periods[0].Overtime)
}

func TestResolveErrors(t *testing.T) {
	db := memstore.New()
	matchID := bareMatch(t, db, 10)
	r := quarters.NewResolver(discardLogger())
	ctx := context.Background()

	_, err := r.Resolve(ctx, db.Store(), matchID+50, quarters.Context{})
	assert.ErrorIs(t, err, shared.ErrMatchNotFound)

	_, err = r.Resolve(ctx, db.Store(), matchID, quarters.Context{Number: ptr(0)})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
