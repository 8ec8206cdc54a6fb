package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"annfsu/app/internal/config"
	"annfsu/app/internal/devserver"
	"annfsu/app/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = "dev-secret-change-me"
		logger.Warn().Msg("ANNFSU_SECURITY.JWTSECRET not set, using dev default")
	}

	srv := devserver.New(cfg, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("dev backend failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("dev backend exited cleanly")
}
