package database

import (
	"database/sql"
	"path/filepath"
	"testing"
)

const latestSchemaVersion = 3

func TestRunMigrations(t *testing.T) {
	t.Run("fresh_database_reaches_latest_version", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")
		manager, err := NewManager(&Config{Path: path})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer manager.Close()

		version, dirty, err := manager.SchemaVersion()
		if err != nil {
			t.Fatalf("failed to read schema version: %v", err)
		}
		if dirty {
			t.Error("expected clean migration state")
		}
		if version != latestSchemaVersion {
			t.Errorf("expected schema version %d, got %d", latestSchemaVersion, version)
		}
	})

	t.Run("seeds_categories_and_canonical_currency", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")
		manager, err := NewManager(&Config{Path: path})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer manager.Close()

		var categoryCount int64
		if err := manager.DB().Raw("SELECT COUNT(*) FROM categories").Scan(&categoryCount).Error; err != nil {
			t.Fatalf("failed to count categories: %v", err)
		}
		if categoryCount != 10 {
			t.Errorf("expected 10 seeded categories, got %d", categoryCount)
		}

		var canonical struct {
			Code   string
			Rate   float64
			Symbol string
		}
		err = manager.DB().Raw("SELECT code, rate_to_base AS rate, symbol FROM currencies WHERE id = 1").Scan(&canonical).Error
		if err != nil {
			t.Fatalf("failed to read canonical currency: %v", err)
		}
		if canonical.Code != "VND" || canonical.Rate != 1.0 || canonical.Symbol != "đ" {
			t.Errorf("unexpected canonical currency: %+v", canonical)
		}

		var usdCount int64
		if err := manager.DB().Raw("SELECT COUNT(*) FROM currencies WHERE code = 'USD'").Scan(&usdCount).Error; err != nil {
			t.Fatalf("failed to count USD rows: %v", err)
		}
		if usdCount != 1 {
			t.Errorf("expected exactly one USD row, got %d", usdCount)
		}
	})

	t.Run("transactions_reference_rebuilt_currencies_table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")
		if err := RunMigrations(path); err != nil {
			t.Fatalf("migration run failed: %v", err)
		}

		db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		// The v3 rebuild replaces the currencies table; the foreign key on
		// transactions.currency_id must still point at it by name.
		var parent string
		err = db.QueryRow(`SELECT "table" FROM pragma_foreign_key_list('transactions') WHERE "from" = 'currency_id'`).Scan(&parent)
		if err != nil {
			t.Fatalf("failed to read foreign key target: %v", err)
		}
		if parent != "currencies" {
			t.Errorf("expected currency_id to reference currencies, got %q", parent)
		}

		// An insert through an enforcing connection exercises the constraint.
		_, err = db.Exec(`INSERT INTO users (email, password_hash, name, created_at) VALUES ('mai@example.com', 'x', 'Mai', 0)`)
		if err != nil {
			t.Fatalf("failed to insert user: %v", err)
		}
		_, err = db.Exec(`INSERT INTO transactions (user_id, category_id, currency_id, amount, occurred_at, kind, created_at)
			VALUES (1, 1, 1, 45000, 1700000000000, 'expense', 1700000000000)`)
		if err != nil {
			t.Fatalf("failed to insert transaction with foreign keys enforced: %v", err)
		}
	})

	t.Run("rerunning_is_a_no_op", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")
		if err := RunMigrations(path); err != nil {
			t.Fatalf("first migration run failed: %v", err)
		}
		if err := RunMigrations(path); err != nil {
			t.Fatalf("second migration run failed: %v", err)
		}

		manager, err := NewManager(&Config{Path: path})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer manager.Close()

		// Re-running the chain must not duplicate seed rows.
		var categoryCount int64
		if err := manager.DB().Raw("SELECT COUNT(*) FROM categories").Scan(&categoryCount).Error; err != nil {
			t.Fatalf("failed to count categories: %v", err)
		}
		if categoryCount != 10 {
			t.Errorf("expected 10 categories after re-run, got %d", categoryCount)
		}
	})
}

func TestMigrateTo(t *testing.T) {
	t.Run("upgrades_from_historical_version", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")

		// Build a v1 database, then upgrade it the way a long-lived
		// installation would.
		if err := MigrateTo(path, 1); err != nil {
			t.Fatalf("failed to migrate to version 1: %v", err)
		}
		version, dirty, err := Version(path)
		if err != nil {
			t.Fatalf("failed to read version: %v", err)
		}
		if dirty || version != 1 {
			t.Fatalf("expected clean version 1, got version %d dirty %v", version, dirty)
		}

		if err := RunMigrations(path); err != nil {
			t.Fatalf("failed to upgrade: %v", err)
		}
		version, dirty, err = Version(path)
		if err != nil {
			t.Fatalf("failed to read version: %v", err)
		}
		if dirty || version != latestSchemaVersion {
			t.Fatalf("expected clean version %d, got version %d dirty %v", latestSchemaVersion, version, dirty)
		}

		// The v3 rebuild derives the VND symbol and backfills USD.
		manager, err := NewManager(&Config{Path: path})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer manager.Close()

		var symbols []string
		if err := manager.DB().Raw("SELECT symbol FROM currencies ORDER BY id").Scan(&symbols).Error; err != nil {
			t.Fatalf("failed to read symbols: %v", err)
		}
		if len(symbols) != 2 || symbols[0] != "đ" || symbols[1] != "$" {
			t.Errorf("unexpected symbols after upgrade: %v", symbols)
		}
	})

	t.Run("upgrades_a_populated_v2_database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")
		if err := MigrateTo(path, 2); err != nil {
			t.Fatalf("failed to migrate to version 2: %v", err)
		}

		// Populate the v2 schema the way a live installation would be: a user
		// with transactions pointing at the seeded currency.
		db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := db.Exec(`INSERT INTO users (email, password_hash, name, created_at) VALUES ('long@example.com', 'x', 'Long', 0)`); err != nil {
			t.Fatalf("failed to insert user: %v", err)
		}
		if _, err := db.Exec(`INSERT INTO transactions (user_id, category_id, currency_id, amount, occurred_at, kind, created_at)
			VALUES (1, 1, 1, 120000, 1690000000000, 'expense', 1690000000000)`); err != nil {
			t.Fatalf("failed to insert transaction: %v", err)
		}
		db.Close()

		// The v3 currencies rebuild must survive existing rows that reference
		// the table being replaced.
		if err := RunMigrations(path); err != nil {
			t.Fatalf("failed to upgrade populated database: %v", err)
		}
		version, dirty, err := Version(path)
		if err != nil {
			t.Fatalf("failed to read version: %v", err)
		}
		if dirty || version != latestSchemaVersion {
			t.Fatalf("expected clean version %d, got version %d dirty %v", latestSchemaVersion, version, dirty)
		}

		db, err = sql.Open("sqlite3", path+"?_foreign_keys=on")
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		var amount float64
		if err := db.QueryRow(`SELECT amount FROM transactions WHERE id = 1`).Scan(&amount); err != nil {
			t.Fatalf("failed to read pre-upgrade transaction: %v", err)
		}
		if amount != 120000 {
			t.Errorf("expected pre-upgrade transaction amount 120000, got %v", amount)
		}

		rows, err := db.Query("PRAGMA foreign_key_check")
		if err != nil {
			t.Fatalf("foreign key check failed: %v", err)
		}
		defer rows.Close()
		if rows.Next() {
			t.Error("expected no foreign key violations after upgrade")
		}

		if _, err := db.Exec(`INSERT INTO transactions (user_id, category_id, currency_id, amount, occurred_at, kind, created_at)
			VALUES (1, 1, 2, 10.5, 1700000000000, 'expense', 1700000000000)`); err != nil {
			t.Fatalf("failed to insert transaction against backfilled currency: %v", err)
		}
	})
}
