// Package store implements the ledger store: durable, schema-versioned
// persistence for users, categories, currencies, transactions, and budgets.
//
// The store is constructed once at startup around the opened database and
// passed by reference to every caller. Write operations defensively reject
// invalid states even though callers are expected to validate first; lookups
// return typed not-found errors rather than empty values.
package store

import (
	"strings"

	"gorm.io/gorm"

	apperrors "campusledger/internal/errors"
)

// Store provides synchronous CRUD access to the five ledger tables.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an already-opened and migrated database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for collaborators that compose queries in
// tests. Production callers go through the typed operations.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// translate maps raw SQLite constraint failures onto the integrity error
// taxonomy. Explicit pre-checks catch the common cases; this is the fallback
// for races and callers that bypass them.
func translate(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return apperrors.Wrap(apperrors.ErrForeignKeyViolation, err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return apperrors.Wrap(apperrors.ErrDuplicateRecord, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
