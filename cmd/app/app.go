package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/questboard/questboard-api/internal/api"
	"github.com/questboard/questboard-api/internal/cache"
	"github.com/questboard/questboard-api/internal/config"
	"github.com/questboard/questboard-api/internal/db"
	"github.com/questboard/questboard-api/internal/jobs"
	"github.com/questboard/questboard-api/internal/logger"
	"github.com/questboard/questboard-api/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := initDependencies(ctx, conf)
	if err != nil {
		return err
	}

	svcs := api.NewServices(conf, postgresDB, deps)

	if conf.Scheduler.Enabled {
		scheduler, err := jobs.NewScheduler(conf.Scheduler, svcs.Scavenger, svcs.Audit)
		if err != nil {
			return fmt.Errorf("failed to initialize scheduler -> %w", err)
		}
		if err = scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler -> %w", err)
		}
		defer func() {
			if err := scheduler.Stop(); err != nil {
				zap.L().Error("failed to stop scheduler", zap.Error(err))
			}
		}()
	}

	s := api.NewServer(conf, svcs)

	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err = srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down the server -> %w", err)
		}
	}

	return nil
}

// initDependencies builds the optional backends. An unreachable Redis only
// disables caching; a misconfigured bucket is fatal.
func initDependencies(ctx context.Context, conf *config.AppConfig) (api.Dependencies, error) {
	var deps api.Dependencies

	if conf.Redis.Enabled() {
		leaderboard := cache.NewLeaderboard(cache.NewRedisClient(conf.Redis), conf.Redis.TTL)
		if err := leaderboard.Ping(ctx); err != nil {
			zap.L().Warn("redis unreachable, leaderboard cache disabled", zap.Error(err))
		} else {
			deps.Cache = leaderboard
		}
	}

	if conf.Storage.Enabled() {
		store, err := storage.NewProofStore(ctx, conf.Storage)
		if err != nil {
			return deps, fmt.Errorf("failed to initialize proof storage -> %w", err)
		}
		deps.Storage = store
	} else {
		zap.L().Warn("proof storage not configured, uploads are disabled")
	}

	return deps, nil
}
