package test_utils

import (
	"path/filepath"
	"testing"

	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/database"
)

// TestDatabaseConfig points at a fresh ledger file inside the test's temp dir.
func TestDatabaseConfig(t *testing.T) config.Database {
	t.Helper()

	return config.Database{
		Path:        filepath.Join(t.TempDir(), "ledger.sqlite"),
		BusyTimeout: 1000,
	}
}

// SetupTestDB creates an isolated ledger file, applies all migrations and opens an engine on it
func SetupTestDB(t *testing.T) *database.Engine {
	t.Helper()

	cfg := TestDatabaseConfig(t)
	if err := database.Migrate(cfg); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	engine, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		engine.Close()
	})

	return engine
}
