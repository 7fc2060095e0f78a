// Package app wires configuration, storage, auth and the HTTP API together
// and runs the server until its context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/rohits-web03/chatterbox/internal/api"
	"github.com/rohits-web03/chatterbox/internal/api/handlers"
	"github.com/rohits-web03/chatterbox/internal/auth"
	"github.com/rohits-web03/chatterbox/internal/config"
	"github.com/rohits-web03/chatterbox/internal/logging"
	"github.com/rohits-web03/chatterbox/internal/repositories"
	"github.com/rohits-web03/chatterbox/internal/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  config.Config
	logger  logging.Logger
	users   repositories.UserStore
	handler http.Handler
}

// New opens the credential store and builds the HTTP handler. Any error
// is a startup failure; the caller is expected to exit.
func New(ctx context.Context, cfg config.Config, logger logging.Logger) (*App, error) {
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}

	users, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var images handlers.ImageUploader
	if cfg.R2.Enabled() {
		store, err := repositories.NewR2ImageStore(cfg.R2)
		if err != nil {
			_ = users.Close(ctx)
			return nil, fmt.Errorf("image store init error: %w", err)
		}
		images = store
	} else {
		logger.Warn(ctx, "R2 is not configured, profile picture uploads are disabled")
	}

	svc := services.NewAuthService(users, auth.NewBcryptHasher(cfg.HashConcurrency), tokens, logger)
	h := api.Handlers{
		Users:   handlers.NewUserHandler(svc, logger, !cfg.IsProduction()),
		Uploads: handlers.NewUploadHandler(images, logger),
	}

	return &App{
		config:  cfg,
		logger:  logger,
		users:   users,
		handler: api.SetupRouter(cfg, h, tokens, logger),
	}, nil
}

// openStore connects to the database, retrying DBConnectRetries times.
func openStore(ctx context.Context, cfg config.Config, logger logging.Logger) (repositories.UserStore, error) {
	return backoff.Retry(ctx,
		func() (repositories.UserStore, error) {
			return repositories.OpenUserStore(ctx, cfg.DBURL, cfg.MongoDatabase)
		},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(cfg.DBConnectRetries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn(ctx, "database connection failed, retrying", "error", err, "retry_in", next)
		}),
	)
}

func (app *App) Handler() http.Handler {
	return app.handler
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// and closes the store.
func (app *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", app.config.Port),
		Handler: app.handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "port", app.config.Port, "env", app.config.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen on port %s: %w", app.config.Port, err)
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown: %w", err))
	}
	if err := app.users.Close(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("close store: %w", err))
	}
	return runErr
}
