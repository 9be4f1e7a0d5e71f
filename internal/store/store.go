package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents a user in the system.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	IsGuest      bool
	SessionID    string // guest session tracking
	Interests    []string
	IsOnline     bool
	LastSeen     time.Time
	CreatedAt    time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, displayName, passwordHash string) (*User, error)

	// CreateGuestUser creates a temporary guest user with session ID.
	CreateGuestUser(ctx context.Context, sessionID, displayName string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// SetOnline flips the user's online flag.
	SetOnline(ctx context.Context, userID int64, online bool) error

	// TouchLastSeen stamps the user's last activity time.
	TouchLastSeen(ctx context.Context, userID int64) error

	// UpdateInterests replaces the user's interest tags.
	UpdateInterests(ctx context.Context, userID int64, interests []string) error

	// ListOnline returns online users, excluding the given user id.
	ListOnline(ctx context.Context, excludeUserID int64) ([]*User, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore

	// Close closes the underlying database connection.
	Close() error
}
