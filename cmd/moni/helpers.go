package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/Dan-Lay/moni/internal/config"
	"github.com/Dan-Lay/moni/internal/service"
	"github.com/Dan-Lay/moni/internal/storage"
)

// openStorage opens the household database and applies pending migrations.
// Callers own the returned handle and must Close it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// newIDGenerator returns the UUID-backed id generator injected into the core.
func newIDGenerator() service.IDGenerator {
	return func() string {
		return uuid.NewString()
	}
}
