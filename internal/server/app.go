// Package server initializes and runs the core-api process: database pool,
// migrations, optional demo seed, and the HTTP server, with graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/newwork/core-api/internal/logging"
	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/config"
	"github.com/newwork/core-api/internal/server/hf"
	"github.com/newwork/core-api/internal/server/httpapi"
	"github.com/newwork/core-api/internal/server/repositories/repomanager"
	"github.com/newwork/core-api/internal/server/seed"
	"github.com/newwork/core-api/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rm     repomanager.RepositoryManager
	api    *httpapi.Service
}

func NewApp(cfg *config.Config) (*App, error) {
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger := logging.NewZerologLogger(zl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	tokens := auth.NewTokenManager(
		[]byte(cfg.AuthHMACSecret),
		cfg.AuthIssuer,
		time.Duration(cfg.AuthExpirySeconds)*time.Second,
	)

	retry := hf.RetryConfig{
		MaxAttempts:   cfg.HFRetryMaxAttempts,
		InitialDelay:  time.Duration(cfg.HFRetryInitialDelayMs) * time.Millisecond,
		Multiplier:    cfg.HFRetryMultiplier,
		MaxDelay:      time.Duration(cfg.HFRetryMaxDelayMs) * time.Millisecond,
		Jitter:        time.Duration(cfg.HFRetryJitterMs) * time.Millisecond,
		RetryOnStatus: make(map[int]bool, len(cfg.HFRetryOnStatus)),
	}
	for _, status := range cfg.HFRetryOnStatus {
		retry.RetryOnStatus[status] = true
	}
	polisher := hf.NewClient(cfg.HFBaseURL, cfg.HFModel, cfg.HFAPIToken, retry, nil)

	api := httpapi.NewService(httpapi.ServiceDeps{
		Addr:      cfg.HTTPAddr,
		Tokens:    tokens,
		Log:       logger,
		Users:     services.NewUserService(db, rm),
		Employees: services.NewEmployeeService(db, rm),
		Profiles:  services.NewProfileService(db, rm),
		Feedback:  services.NewFeedbackService(db, rm, polisher),
		Absences:  services.NewAbsenceService(db, rm),
	})

	return &App{config: cfg, logger: logger, db: db, rm: rm, api: api}, nil
}

func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.db.Close()

	app.logger.Info(ctx, "starting app")

	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}
	if err := app.rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	if app.config.SeedDemoData {
		if err := seed.Run(ctx, app.db, app.rm, app.logger); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.api.Start(ctx)
	})
	return g.Wait()
}
