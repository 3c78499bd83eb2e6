package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/courtline/courtline/internal/app"
	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/fouls"
	jobmetrics "github.com/courtline/courtline/internal/jobs"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/platform/cache"
	"github.com/courtline/courtline/internal/platform/db"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/scoreboard"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/timeouts"
	"github.com/courtline/courtline/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	// The worker has no viewers of its own. Snapshots travel over Redis and
	// reach API instances running the redis broadcast backend.
	notifier := broadcast.NewNotifier(broadcast.NewRedisPublisher(redisClient, cfg.BroadcastChannelPrefix), logger)
	resolver := quarters.NewResolver(logger)

	periodService := quarters.NewService(quarters.NewRepository(pool), notifier, nil)
	board := scoreboard.NewService(
		periodService,
		scoring.NewService(scoring.NewRepository(pool), resolver, notifier),
		fouls.NewService(fouls.NewRepository(pool), resolver, notifier),
		timeouts.NewService(timeouts.NewRepository(pool), resolver, notifier),
		notifier,
	)
	matches := match.NewService(match.NewRepository(pool), notifier, nil)

	resyncJob := jobs.NewScoreboardResyncJob(matches, board, logger, jobmetrics.NewMetrics(nil))
	resyncTask, err := jobs.NewScoreboardResyncTask(0)
	if err != nil {
		logger.Error("build resync task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskScoreboardResync, Handler: resyncJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.ResyncCron, Task: resyncTask, Options: []asynq.Option{asynq.MaxRetry(0)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
