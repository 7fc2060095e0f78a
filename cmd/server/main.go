package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rohits-web03/chatterbox/internal/app"
	"github.com/rohits-web03/chatterbox/internal/config"
	"github.com/rohits-web03/chatterbox/internal/logging"
)

// @title Chatterbox API
// @version 1.0
// @description Accounts, authentication and profile pictures for the Chatterbox chat app.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.IsProduction())
	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
