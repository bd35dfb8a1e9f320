package main

import (
	"context"
	"fmt"

	"github.com/lcorp/storefront/pkg/config"
	"github.com/lcorp/storefront/pkg/logger"
)

// env bundles what every subcommand needs after config load.
type env struct {
	cfg  *config.Config
	logg *logger.Logger
	ctx  context.Context
}

func loadEnv(ctx context.Context, command string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "storefrontctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": command})
	return &env{cfg: cfg, logg: logg, ctx: ctx}, nil
}
