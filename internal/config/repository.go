package config

import (
	"fmt"
	"os"

	"todomaster/internal/repository/sqlite"
)

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(config *Config) (sqlite.Repository, error) {
	dbPath := config.GetDatabasePath()

	if dbPath != ":memory:" {
		if err := os.MkdirAll(config.Store.Dir, os.FileMode(config.Store.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	repo, err := sqlite.NewWithOptions(dbPath, sqlite.Options{
		QueryTimeout: config.Store.QueryTimeout,
		WriteTimeout: config.Store.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
