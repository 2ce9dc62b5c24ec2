// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tripsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// dbtx is satisfied by both *sql.DB and *sql.Tx, so helpers can run inside
// or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so pass it in the DSN
	// rather than executing the pragma once.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetTripName returns the owner's trip name, or fallback when none is stored.
func (s *SQLiteStore) GetTripName(ctx context.Context, ownerID, fallback string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM trips WHERE owner_id = ?", ownerID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get trip name: %w", err)
	}
	return name, nil
}

// SetTripName stores the owner's trip name.
func (s *SQLiteStore) SetTripName(ctx context.Context, ownerID, name string) error {
	return setTripName(ctx, s.db, ownerID, name)
}

func setTripName(ctx context.Context, q dbtx, ownerID, name string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO trips (owner_id, name, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		ownerID, name, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to set trip name: %w", err)
	}
	return nil
}
