// Package database owns the embedded SQLite database file: opening it,
// enforcing foreign keys, and applying the versioned schema migrations.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"campusledger/internal/logger"
)

// Manager handles database operations
type Manager struct {
	db   *gorm.DB
	path string
}

// NewManager opens (or creates) the database file and applies any pending
// migrations. A migration failure is fatal for the open attempt: the error is
// returned and no Manager is produced.
func NewManager(config *Config) (*Manager, error) {
	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(config.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	m := &Manager{db: db, path: config.Path}
	if err := m.Migrate(); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return m, nil
}

// Migrate applies all pending schema migrations to the database file.
func (m *Manager) Migrate() error {
	logger.Get().Infow("Running database migrations", "path", m.path)

	if err := RunMigrations(m.path); err != nil {
		return err
	}

	version, dirty, err := m.SchemaVersion()
	if err != nil {
		return err
	}
	logger.Get().Infow("Database migrations completed", "version", version, "dirty", dirty)
	return nil
}

// SchemaVersion reports the schema version recorded in the database and
// whether a migration was left half-applied.
func (m *Manager) SchemaVersion() (uint, bool, error) {
	var row struct {
		Version int64
		Dirty   bool
	}
	err := m.db.Raw("SELECT version, dirty FROM schema_migrations LIMIT 1").Scan(&row).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return uint(row.Version), row.Dirty, nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close closes the underlying database connection.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
