// Package app wires the configured store into a repository.Set.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/baharkarakas/finflow-backend/internal/config"
	"github.com/baharkarakas/finflow-backend/internal/db"
	"github.com/baharkarakas/finflow-backend/internal/repository"
	"github.com/baharkarakas/finflow-backend/internal/repository/dynamo"
	"github.com/baharkarakas/finflow-backend/internal/repository/memory"
	"github.com/baharkarakas/finflow-backend/internal/repository/mongodb"
	"github.com/baharkarakas/finflow-backend/internal/repository/postgres"
)

// OpenStore returns the repositories for cfg.StoreMode and a func releasing
// the connection. Connections open lazily on first use unless cfg.Migrate
// asks for schema setup, which connects immediately.
func OpenStore(ctx context.Context, cfg config.Config) (repository.Set, func(), error) {
	noop := func() {}
	switch cfg.StoreMode {
	case config.StoreMemory:
		return memory.NewSet(memory.NewStore()), noop, nil

	case config.StorePostgres:
		h := db.NewPostgres(cfg.DatabaseURL)
		if cfg.Migrate {
			pool, err := h.Get(ctx)
			if err != nil {
				return repository.Set{}, noop, err
			}
			if err := db.RunMigrations(ctx, pool); err != nil {
				h.Close()
				return repository.Set{}, noop, fmt.Errorf("migrations: %w", err)
			}
			slog.Info("migrations applied")
		}
		return postgres.NewRepositories(h), h.Close, nil

	case config.StoreMongo:
		h := db.NewMongo(cfg.MongoURI, cfg.MongoDB)
		return mongodb.NewRepositories(h), h.Close, nil

	case config.StoreDynamo:
		h := db.NewDynamo(db.DynamoConfig{Region: cfg.DynamoRegion, Endpoint: cfg.DynamoEndpoint})
		tables := dynamo.Tables{Transactions: cfg.DynamoTransactions, Accounts: cfg.DynamoAccounts, Users: cfg.DynamoUsers}
		if cfg.Migrate {
			client, err := h.Get(ctx)
			if err != nil {
				return repository.Set{}, noop, err
			}
			for _, t := range []string{tables.Transactions, tables.Accounts, tables.Users} {
				if err := db.EnsureTable(ctx, client, t); err != nil {
					return repository.Set{}, noop, fmt.Errorf("ensure table %s: %w", t, err)
				}
			}
			slog.Info("dynamodb tables ready", "transactions", tables.Transactions, "accounts", tables.Accounts, "users", tables.Users)
		}
		return dynamo.NewRepositories(h, tables), h.Close, nil
	}
	return repository.Set{}, noop, fmt.Errorf("unknown store mode %q", cfg.StoreMode)
}
