// Package backend selects and constructs the ledger store from configuration.
package backend

import (
	"fmt"
	"log/slog"

	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/ledger/memory"
	"fintrack/internal/storage"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result bundles the constructed store with its cleanup function. Cleanup may
// be nil.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Open constructs the store named by cfg.DataBackend. Every backend is
// wrapped in the folder lookup cache.
func Open(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case "memory":
		logger.Info("Initialized memory backend")
		return &Result{Store: cache.NewStore(memory.New())}, nil

	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: cache.NewStore(repo), Cleanup: repo.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
