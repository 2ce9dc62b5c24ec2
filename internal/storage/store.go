// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripsplit/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for trip storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every trip and session method is scoped to an owner: a session that
// belongs to another user is reported as not found.
type Store interface {
	UserStore

	// GetTripName returns the owner's trip name, or fallback if the owner
	// has never named a trip.
	GetTripName(ctx context.Context, ownerID, fallback string) (string, error)

	// SetTripName stores the owner's trip name.
	SetTripName(ctx context.Context, ownerID, name string) error

	// CreateSession persists a new session.
	// The session.ID and CreatedAt fields are populated by the store when empty.
	CreateSession(ctx context.Context, ownerID string, session *models.Session) error

	// GetSession retrieves a session with its participants, expenses and
	// paid settlement keys.
	GetSession(ctx context.Context, ownerID, sessionID string) (*models.Session, error)

	// ListSessions returns every session of the owner, oldest first.
	ListSessions(ctx context.Context, ownerID string) ([]*models.Session, error)

	// CountSessions returns how many sessions the owner has.
	CountSessions(ctx context.Context, ownerID string) (int, error)

	// SaveSession replaces the stored contents of an existing session.
	SaveSession(ctx context.Context, ownerID string, session *models.Session) error

	// DeleteSession removes a session and everything in it.
	DeleteSession(ctx context.Context, ownerID, sessionID string) error

	// ReplaceTrip atomically replaces the owner's trip name and sessions.
	ReplaceTrip(ctx context.Context, ownerID, name string, sessions []*models.Session) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore defines user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail and GetUserByID return ErrNotFound when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
