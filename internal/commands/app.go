package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/balkashynov/vibetrack/internal/clock"
	"github.com/balkashynov/vibetrack/internal/config"
	"github.com/balkashynov/vibetrack/internal/db"
	"github.com/balkashynov/vibetrack/internal/journal"
	"github.com/balkashynov/vibetrack/internal/logging"
	"github.com/balkashynov/vibetrack/internal/overlap"
	"github.com/balkashynov/vibetrack/internal/recovery"
	recoveryredis "github.com/balkashynov/vibetrack/internal/recovery/redis"
	"github.com/balkashynov/vibetrack/internal/stats"
	"github.com/balkashynov/vibetrack/internal/timer"
)

// App is everything a command needs, built once per invocation
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Clock   clock.Clock
	Store   *db.Store
	Timer   *timer.Timer
	Journal *journal.Journal
	Stats   *stats.Engine

	closers []io.Closer
}

type appKey struct{}

// newApp wires the components and runs recovery
func newApp(ctx context.Context, configPath string, logToStderr bool) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(cfg.Logging, logToStderr)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Clock:   clock.Real{},
		closers: []io.Closer{logCloser},
	}

	store, err := db.Open(cfg.Storage.Path)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store
	app.closers = append(app.closers, store)

	var kv recovery.KV = store.Settings()
	if cfg.Recovery.Backend == config.BackendRedis {
		redisStore, err := recoveryredis.Open(recoveryredis.Config{
			Addr:        cfg.Recovery.Redis.Addr,
			Password:    cfg.Recovery.Redis.Password,
			DB:          cfg.Recovery.Redis.DB,
			DialTimeout: cfg.Recovery.Redis.DialTimeout,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		kv = redisStore
		app.closers = append(app.closers, redisStore)
	}

	validator := overlap.NewValidator(store)
	manager := recovery.NewManager(kv, store, cfg.Recovery.Key, logger)

	app.Timer = timer.New(store, manager, validator, app.Clock, logger)
	app.Journal = journal.New(store, validator, app.Clock, cfg.Location(), logger)
	app.Stats = stats.NewEngine(store, cfg.Location())

	if err := app.Timer.Bind(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to recover timer state: %w", err)
	}

	logger.Debug().
		Str("storage", cfg.Storage.Path).
		Str("recovery_backend", cfg.Recovery.Backend).
		Msg("Application ready")

	return app, nil
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close resources")
	}
}
