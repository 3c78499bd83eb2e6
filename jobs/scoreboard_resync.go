package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/courtline/courtline/internal/jobs"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/scoreboard"
	"github.com/courtline/courtline/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// LiveMatches lists the matches being played.
type LiveMatches interface {
	InProgress(ctx context.Context) ([]match.Match, error)
}

// SnapshotPublisher rebuilds and pushes one match's scoreboard.
type SnapshotPublisher interface {
	Publish(ctx context.Context, matchID int64) (scoreboard.Snapshot, error)
}

// ScoreboardResyncJob pushes full snapshots so viewers that missed a
// broadcast converge without refetching.
type ScoreboardResyncJob struct {
	Matches LiveMatches
	Board   SnapshotPublisher
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewScoreboardResyncJob wires dependencies for the resync handler.
func NewScoreboardResyncJob(matches LiveMatches, board SnapshotPublisher, logger *slog.Logger, metrics *jobmetrics.Metrics) *ScoreboardResyncJob {
	return &ScoreboardResyncJob{Matches: matches, Board: board, Logger: logger, Metrics: metrics}
}

// Handle processes TaskScoreboardResync tasks.
func (j *ScoreboardResyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Board == nil || j.Matches == nil {
		return errors.New("scoreboard resync: handler not configured")
	}
	var payload ScoreboardResyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskScoreboardResync)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	start := time.Now()
	logger := j.logger()

	ids := []int64{payload.MatchID}
	if payload.MatchID == 0 {
		live, err := j.Matches.InProgress(ctx)
		if err != nil {
			resultErr = err
			logger.Error("list live matches", slog.Any("error", err))
			return resultErr
		}
		ids = ids[:0]
		for _, m := range live {
			ids = append(ids, m.ID)
		}
	}

	published := 0
	for _, id := range ids {
		if _, err := j.Board.Publish(ctx, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				logger.Info("match gone before resync", slog.Int64("match_id", id))
				continue
			}
			resultErr = err
			logger.Error("publish snapshot", slog.Int64("match_id", id), slog.Any("error", err))
			return resultErr
		}
		published++
	}
	j.metrics().AddSnapshots(published)

	logger.Info("completed scoreboard resync", slog.Int("matches", published), slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *ScoreboardResyncJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ScoreboardResyncJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskScoreboardResync))
	}
	return slog.Default().With(slog.String("job", TaskScoreboardResync))
}
