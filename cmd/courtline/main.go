package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/courtline/courtline/internal/announce"
	"github.com/courtline/courtline/internal/app"
	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/clock"
	"github.com/courtline/courtline/internal/fouls"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/observability"
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
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Error("migrate schema", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Redis is optional for the local backend; without it the job endpoints
	// report the queue as unavailable.
	var redisClient *redis.Client
	if client, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		if cfg.BroadcastBackend == app.BroadcastRedis {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Warn("redis unavailable", slog.Any("error", err))
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()
	hub := broadcast.NewHub(logger, metrics)
	go hub.Run(ctx)

	var publisher broadcast.Publisher = hub
	if cfg.BroadcastBackend == app.BroadcastRedis {
		publisher = broadcast.NewRedisPublisher(redisClient, cfg.BroadcastChannelPrefix)
		relay := broadcast.NewRelay(redisClient, cfg.BroadcastChannelPrefix, hub, logger)
		go func() {
			if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("broadcast relay", slog.Any("error", err))
				stop()
			}
		}()
	}
	notifier := broadcast.NewNotifier(publisher, logger)
	messages := announce.New(cfg.MessageLang)
	resolver := quarters.NewResolver(logger)

	matchService := match.NewService(match.NewRepository(pool), notifier, messages)
	periodService := quarters.NewService(quarters.NewRepository(pool), notifier, messages)
	scoreService := scoring.NewService(scoring.NewRepository(pool), resolver, notifier)
	foulService := fouls.NewService(fouls.NewRepository(pool), resolver, notifier)
	timeoutService := timeouts.NewService(timeouts.NewRepository(pool), resolver, notifier)
	clockService := clock.NewService(clock.NewRepository(pool), resolver)
	boardService := scoreboard.NewService(periodService, scoreService, foulService, timeoutService, notifier)

	var jobHandler *jobs.Handler
	if redisClient != nil {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		inspector := asynq.NewInspector(redisOpts)
		defer inspector.Close()
		jobClient := jobs.NewClient(redisOpts)
		defer jobClient.Close()
		jobHandler = jobs.NewHandler(inspector, jobClient, logger)
	} else {
		jobHandler = jobs.NewHandler(nil, nil, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Metrics:           metrics,
		MatchHandler:      match.NewHandler(logger, matchService),
		PeriodHandler:     quarters.NewHandler(logger, periodService),
		ScoreHandler:      scoring.NewHandler(logger, scoreService),
		FoulHandler:       fouls.NewHandler(logger, foulService),
		TimeoutHandler:    timeouts.NewHandler(logger, timeoutService),
		ClockHandler:      clock.NewHandler(logger, clockService),
		ScoreboardHandler: scoreboard.NewHandler(logger, boardService),
		JobHandler:        jobHandler,
		Socket:            broadcast.NewHandler(ctx, hub, logger, cfg.AllowOrigin),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("broadcast", cfg.BroadcastBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
