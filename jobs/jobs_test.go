package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/courtline/courtline/internal/jobs"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/scoreboard"
	"github.com/courtline/courtline/internal/shared"
)

type stubLive struct {
	matches []match.Match
	err     error
}

func (s stubLive) InProgress(ctx context.Context) ([]match.Match, error) {
	return s.matches, s.err
}

type stubBoard struct {
	published []int64
	failOn    map[int64]error
}

func (s *stubBoard) Publish(ctx context.Context, matchID int64) (scoreboard.Snapshot, error) {
	if err := s.failOn[matchID]; err != nil {
		return scoreboard.Snapshot{}, err
	}
	s.published = append(s.published, matchID)
	return scoreboard.Snapshot{MatchID: matchID}, nil
}

func newJob(live LiveMatches, board SnapshotPublisher) *ScoreboardResyncJob {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewScoreboardResyncJob(live, board, logger, jobmetrics.NewMetrics(prometheus.NewRegistry()))
}

func resyncTask(t *testing.T, matchID int64) *asynq.Task {
	t.Helper()
	task, err := NewScoreboardResyncTask(matchID)
	require.NoError(t, err)
	return task
}

func TestResyncAllLiveMatches(t *testing.T) {
	board := &stubBoard{failOn: map[int64]error{
		2: fmt.Errorf("load: %w", shared.ErrMatchNotFound),
	}}
	live := stubLive{matches: []match.Match{{ID: 1}, {ID: 2}, {ID: 3}}}

	require.NoError(t, newJob(live, board).Handle(context.Background(), resyncTask(t, 0)))
	assert.Equal(t, []int64{1, 3}, board.published, "a match deleted mid-run is skipped")
}

func TestResyncSingleMatch(t *testing.T) {
	board := &stubBoard{}
	live := stubLive{err: errors.New("must not list")}

	require.NoError(t, newJob(live, board).Handle(context.Background(), resyncTask(t, 8)))
	assert.Equal(t, []int64{8}, board.published)
}

func TestResyncFailures(t *testing.T) {
	boom := errors.New("redis down")
	board := &stubBoard{failOn: map[int64]error{1: boom}}

	err := newJob(stubLive{matches: []match.Match{{ID: 1}}}, board).Handle(context.Background(), resyncTask(t, 0))
	assert.ErrorIs(t, err, boom)

	err = newJob(stubLive{err: boom}, board).Handle(context.Background(), resyncTask(t, 0))
	assert.ErrorIs(t, err, boom)

	bad := asynq.NewTask(TaskScoreboardResync, []byte("{"))
	err = newJob(stubLive{}, board).Handle(context.Background(), bad)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	var unset *ScoreboardResyncJob
	assert.Error(t, unset.Handle(context.Background(), bad))
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

type stubEnqueuer struct {
	err error
}

func (s stubEnqueuer) EnqueueScoreboardResync(ctx context.Context, matchID int64) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &asynq.TaskInfo{ID: fmt.Sprintf("resync-%d", matchID)}, nil
}

func serve(h *Handler, method, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestHealth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rr := serve(NewHandler(nil, nil, logger), http.MethodGet, "/jobs/health")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0,"active":0}`, rr.Body.String())

	rr = serve(NewHandler(stubInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 4, Active: 1}}, nil, logger), http.MethodGet, "/jobs/health")
	assert.JSONEq(t, `{"queue":"default","pending":4,"active":1}`, rr.Body.String())

	rr = serve(NewHandler(stubInspector{err: errors.New("dial tcp")}, nil, logger), http.MethodGet, "/jobs/health")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestResyncEndpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rr := serve(NewHandler(nil, stubEnqueuer{}, logger), http.MethodPost, "/jobs/resync/5")
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"task_id":"resync-5"}`, rr.Body.String())

	rr = serve(NewHandler(nil, stubEnqueuer{err: asynq.ErrDuplicateTask}, logger), http.MethodPost, "/jobs/resync/5")
	assert.Equal(t, http.StatusAccepted, rr.Code)

	rr = serve(NewHandler(nil, nil, logger), http.MethodPost, "/jobs/resync/5")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = serve(NewHandler(nil, stubEnqueuer{}, logger), http.MethodPost, "/jobs/resync/zero")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
