package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the default identity store. It owns the users and company
// mappings, and its database doubles as the data handle for the default
// tenant. Concrete drivers implement this.
type Store interface {
	Users() Users
	CompanyMappings() CompanyMappings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// DB exposes the pool backing the store for the default tenant route.
	// Callers must not close it.
	DB() *sql.DB

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Users() Users
	CompanyMappings() CompanyMappings
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during password login. Matching is exact.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the caller via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash replaces the stored hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// SetActive enables or disables login for a user.
	SetActive(ctx context.Context, userID string, active bool) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type CompanyMappings interface {
	// GetActiveMapping returns the most recently updated active, non-deleted
	// mapping for the user in systemType. userID and username must both match.
	GetActiveMapping(ctx context.Context, userID, username, systemType string) (domain.CompanyMapping, error)

	// CreateMapping inserts a mapping. A duplicate (user, tenant, system)
	// triple returns ErrAlreadyExists.
	CreateMapping(ctx context.Context, m domain.CompanyMapping) error

	// DeleteMapping soft deletes a mapping.
	DeleteMapping(ctx context.Context, id string) error
}
