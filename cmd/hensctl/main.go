package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zachrizzo/hens-travel/internal/app"
	"github.com/zachrizzo/hens-travel/internal/cli"
	"github.com/zachrizzo/hens-travel/internal/config"
	"github.com/zachrizzo/hens-travel/internal/logging"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

func main() {
	_ = godotenv.Load()
	log.Logger = logging.New(os.Getenv("APP_ENV"))

	rootCmd := cli.NewRootCmd(func(ctx context.Context) (ports.Stores, func() error, error) {
		return app.OpenStores(ctx, config.LoadStore(), log.Logger)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
