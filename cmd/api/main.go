package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/app"
	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/clock"
	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/config"
	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/storage/postgres"
	transporthttp "github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/transport/http"
	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	repo := postgres.NewInterviewRepository(pool, postgres.WithLockTimeout(cfg.LockTimeout))
	svc := app.NewInterviewService(repo, clock.NewSystem(), logger.Sugar())

	e := transporthttp.NewRouter(svc, logger, cfg.CORSOrigins)

	logger.Info("api listening", zap.String("port", cfg.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- e.Start(":" + cfg.Port)
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
