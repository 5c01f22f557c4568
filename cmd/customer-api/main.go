package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-customers/internal/app"
	"github.com/samvad-hq/samvad-customers/internal/config"
	"github.com/samvad-hq/samvad-customers/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "customer-api start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sugar, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("customer-api starting", "config", map[string]any{
		"app_name":     cfg.AppName,
		"app_env":      cfg.Env,
		"http_addr":    cfg.HTTPAddr,
		"storage_type": cfg.StorageType,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := app.NewAPI(ctx, cfg, logger.FromSugared(sugar))
	if err != nil {
		logger.ErrorObj("failed to initialize api", "error", err)
		return err
	}

	if err := api.Run(ctx); err != nil {
		return fmt.Errorf("api run: %w", err)
	}

	return nil
}
