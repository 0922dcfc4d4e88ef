package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/config"
	"github.com/zachrizzo/hens-travel/internal/repository/firestore"
	"github.com/zachrizzo/hens-travel/internal/repository/memory"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
	"github.com/zachrizzo/hens-travel/internal/repository/postgres"
)

// OpenStores connects the configured document store. The returned func
// releases the connection.
func OpenStores(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (ports.Stores, func() error, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		db, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return ports.Stores{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.AutoMigrate {
			applied, err := postgres.Migrate(ctx, db)
			if err != nil {
				_ = db.Close()
				return ports.Stores{}, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info().Strs("applied", applied).Msg("migrations up to date")
		}
		return postgres.NewStores(db), db.Close, nil

	case config.StoreDriverFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			return ports.Stores{}, nil, fmt.Errorf("connect firestore: %w", err)
		}
		return firestore.NewStores(client), client.Close, nil

	case config.StoreDriverMemory:
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.NewStores(), func() error { return nil }, nil

	default:
		return ports.Stores{}, nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
