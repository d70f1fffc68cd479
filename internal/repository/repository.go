// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package repository provides database access for all entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vinovest/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when a user row collides with an
// existing email address.
var ErrDuplicateEmail = errors.New("email already registered")

// querier is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx, so the
// same repository methods work inside and outside a transaction.
type querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// Repository wraps sqlx for database operations.
type Repository struct {
	db *sqlx.DB // nil when scoped to a transaction
	q  querier
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db, q: db}
}

// Tx runs fn inside a single database transaction. The repository passed
// to fn is scoped to that transaction; any error aborts the whole unit.
func (r *Repository) Tx(ctx context.Context, fn func(*Repository) error) error {
	if r.db == nil {
		// Already transaction-scoped, don't nest.
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&Repository{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// wrapError converts driver errors to repository errors.
func wrapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
