package scoring

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScoreService struct {
	adjustFn func(ctx context.Context, in AdjustInput) (Totals, error)
	totalsFn func(ctx context.Context, matchID int64) (Totals, error)
	resetFn  func(ctx context.Context, matchID int64) (Totals, error)
}

func (s *stubScoreService) Adjust(ctx context.Context, in AdjustInput) (Totals, error) {
	return s.adjustFn(ctx, in)
}

func (s *stubScoreService) Totals(ctx context.Context, matchID int64) (Totals, error) {
	return s.totalsFn(ctx, matchID)
}

func (s *stubScoreService) Reset(ctx context.Context, matchID int64) (Totals, error) {
	return s.resetFn(ctx, matchID)
}

func serve(svc scoreService, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/matches/{matchID}/score", NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).MountRoutes)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAdjustTakesMatchFromPath(t *testing.T) {
	var captured AdjustInput
	svc := &stubScoreService{
		adjustFn: func(ctx context.Context, in AdjustInput) (Totals, error) {
			captured = in
			return Totals{MatchID: in.MatchID, HomeTeamID: 1, AwayTeamID: 2, Home: 3}, nil
		},
	}
	body := `{"teamId":1,"delta":3,"period":{"number":2}}`
	rr := serve(svc, httptest.NewRequest(http.MethodPost, "/matches/12/score/adjust", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(12), captured.MatchID)
	require.NotNil(t, captured.Period.Number)
	assert.Equal(t, 2, *captured.Period.Number)

	var totals Totals
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&totals))
	assert.Equal(t, 3, totals.Home)
}

func TestAdjustRejectsOutOfRangeDelta(t *testing.T) {
	svc := &stubScoreService{
		adjustFn: func(ctx context.Context, in AdjustInput) (Totals, error) {
			t.Fatal("service must not be called")
			return Totals{}, nil
		},
	}
	for _, body := range []string{`{"teamId":1,"delta":0}`, `{"teamId":1,"delta":4}`, `{"delta":2}`} {
		rr := serve(svc, httptest.NewRequest(http.MethodPost, "/matches/12/score/adjust", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestTotalsAndReset(t *testing.T) {
	svc := &stubScoreService{
		totalsFn: func(ctx context.Context, matchID int64) (Totals, error) {
			return Totals{MatchID: matchID, Home: 40, Away: 38}, nil
		},
		resetFn: func(ctx context.Context, matchID int64) (Totals, error) {
			return Totals{MatchID: matchID}, nil
		},
	}
	rr := serve(svc, httptest.NewRequest(http.MethodGet, "/matches/12/score/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"matchId":12,"homeTeamId":0,"awayTeamId":0,"home":40,"away":38}`, rr.Body.String())

	rr = serve(svc, httptest.NewRequest(http.MethodDelete, "/matches/12/score/reset", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}
