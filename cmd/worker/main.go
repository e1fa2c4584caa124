package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candor-retail/candor-backend/internal/app"
	"github.com/candor-retail/candor-backend/internal/attendance"
	"github.com/candor-retail/candor-backend/internal/auth"
	"github.com/candor-retail/candor-backend/jobs"
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

	// "worker enqueue [reason]" submits a one-off housekeeping run and exits.
	if len(os.Args) > 1 && os.Args[1] == "enqueue" {
		reason := "manual"
		if len(os.Args) > 2 {
			reason = os.Args[2]
		}
		client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Error("init queue client", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Close()
		info, err := client.EnqueueHousekeeping(ctx, jobs.HousekeepingPayload{Reason: reason})
		if err != nil {
			logger.Error("enqueue housekeeping", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("housekeeping enqueued",
			slog.String("task_id", info.ID),
			slog.String("queue", info.Queue),
			slog.String("reason", reason),
		)
		return
	}

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	housekeeping := jobs.NewHousekeepingJob(
		attendance.NewRepository(pool),
		auth.NewRepository(pool),
		logger,
	)

	housekeepingTask, err := jobs.NewHousekeepingTask(jobs.HousekeepingPayload{Reason: "nightly"})
	if err != nil {
		logger.Error("build housekeeping task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskHousekeeping, Handler: housekeeping.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: jobs.HousekeepingSpec, Task: housekeepingTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
