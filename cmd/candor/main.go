package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/candor-retail/candor-backend/internal/app"
	"github.com/candor-retail/candor-backend/internal/attendance"
	"github.com/candor-retail/candor-backend/internal/auth"
	"github.com/candor-retail/candor-backend/internal/catalog"
	"github.com/candor-retail/candor-backend/internal/geocoding"
	"github.com/candor-retail/candor-backend/internal/interunit"
	"github.com/candor-retail/candor-backend/internal/inward"
	"github.com/candor-retail/candor-backend/internal/mail"
	"github.com/candor-retail/candor-backend/internal/platform/db"
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

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo, redisClient, cfg.CatalogCacheTTL, logger)

	attendanceRepo := attendance.NewRepository(pool)
	geocodeQueue := geocoding.NewQueue(
		geocoding.NewClient(cfg.LocationIQKey),
		attendanceRepo,
		logger,
		cfg.GeocodeThrottle,
	)
	geocodeQueue.Start()

	attendanceService := attendance.NewService(attendanceRepo, catalogService, geocodeQueue, logger)
	attendanceHandler := attendance.NewHandler(logger, attendanceService)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens, catalogService, mailer, logger)
	authHandler := auth.NewHandler(logger, authService, tokens)

	interunitRepo := interunit.NewRepository(pool)
	interunitService := interunit.NewService(interunitRepo, logger)
	interunitHandler := interunit.NewHandler(logger, interunitService)

	extractor := inward.NewExtractClient(cfg.ExtractAPIURL, cfg.ExtractAPIKey)
	inwardRepo := inward.NewRepository(pool)
	inwardService := inward.NewService(inwardRepo, logger)
	inwardHandler := inward.NewHandler(logger, inwardService, extractor)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		TokenManager:      tokens,
		AuthHandler:       authHandler,
		AttendanceHandler: attendanceHandler,
		InterunitHandler:  interunitHandler,
		InwardHandler:     inwardHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
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

	// Drain pending geocoding lookups before the pool closes.
	geocodeQueue.Stop()
}
