package test_utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pocketledger/pocketledger/internal/database"
)

// InsertTestAccount stores a bare account row so ledger rows can reference it.
// It writes SQL directly to stay free of the account package.
func InsertTestAccount(t *testing.T, engine *database.Engine, username string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := engine.Exec(context.Background(),
		"INSERT INTO account (account_id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		id, username, "not-a-hash", "2024-01-01 00:00:00",
	)
	if err != nil {
		t.Fatalf("Failed to insert test account %s: %v", username, err)
	}
	return id
}
