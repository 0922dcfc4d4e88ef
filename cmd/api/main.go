package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zachrizzo/hens-travel/internal/app"
	"github.com/zachrizzo/hens-travel/internal/config"
	"github.com/zachrizzo/hens-travel/internal/logging"
)

func main() {
	cfg := config.Load()

	var sinks []io.Writer
	if cfg.LogstashTCPAddr != "" {
		ls, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Fatal().Err(err).Msg("logstash writer")
		}
		defer ls.Close()
		sinks = append(sinks, ls)
	}
	log.Logger = logging.New(cfg.AppEnv, sinks...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("app init failed")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
