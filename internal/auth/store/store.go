package store

import (
	"context"
	"errors"

	"github.com/gatehouse/gatehouse/internal/auth/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists reports a unique-constraint violation (duplicate
	// email, duplicate token fingerprint). Callers can rely on this typed
	// error instead of inspecting driver error strings.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users
	MagicTokens() MagicTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and magic-link request.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the email is taken; the unique index on
	// email is the race guard for concurrent signups.
	CreateUser(ctx context.Context, u domain.User) error
}

type MagicTokens interface {
	// CreateMagicToken writes a new token record (token_hash is the SHA-256
	// fingerprint of the raw token).
	CreateMagicToken(ctx context.Context, t domain.MagicToken) error

	// GetMagicTokenByHash returns the token record by fingerprint,
	// regardless of used or expiry state.
	GetMagicTokenByHash(ctx context.Context, hash string) (domain.MagicToken, error)

	// ConsumeMagicToken atomically flips used from false to true. It
	// reports false when the token was already consumed, so two concurrent
	// redemptions resolve to exactly one winner.
	ConsumeMagicToken(ctx context.Context, id string) (bool, error)

	// DeleteExpiredMagicTokens is housekeeping.
	DeleteExpiredMagicTokens(ctx context.Context) error
}
