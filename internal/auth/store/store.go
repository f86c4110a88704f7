package store

import (
	"context"
	"errors"

	"modelrunner/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and stop callers from
// accidentally opening transactions within transactions.
type Store interface {
	Clients() Clients

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

type Clients interface {
	// GetClientByID fetches a client row by its primary key.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// CreateClient inserts a new client row. The permission bitset, hash,
	// and millisecond timestamps are provided by the caller.
	CreateClient(ctx context.Context, c domain.Client) error

	// UpdateClient overwrites name and permissions and bumps updated_at.
	// The old permission set is fully replaced, never merged.
	UpdateClient(ctx context.Context, id, name string, permissions domain.Permission, updatedAt int64) error

	// DeleteClient removes a client row. Deleting a missing id is not an
	// error; the operation is idempotent.
	DeleteClient(ctx context.Context, id string) error

	// IsEmpty returns true if there are no clients.
	IsEmpty(ctx context.Context) (bool, error)
}
