// Package testutil provides test helpers for setting up migrated databases,
// creating fixtures, and making assertions.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"campusledger/internal/database"
)

// SetupTestDB creates a fresh database file in a per-test temp directory and
// runs the full migration chain against it, so tests see the same schema and
// seed rows production does.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	manager := SetupTestManager(t)
	return manager.DB()
}

// SetupTestManager is SetupTestDB for tests that need the Manager itself,
// for example to read the schema version.
func SetupTestManager(t *testing.T) *database.Manager {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	manager, err := database.NewManager(&database.Config{Path: path})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return manager
}
