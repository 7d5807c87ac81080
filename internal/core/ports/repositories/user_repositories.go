package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// UserReader defines read operations for users and the legacy balance.
type UserReader interface {
	// FindUserByID retrieves a user, or apperrors.ErrNotFound.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUserIDs enumerates all user ids, for full-population sync scans.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// UserWriter defines write operations for users. The legacy balance column is
// only ever mutated under a row lock inside an issuance or reconciliation
// transaction.
type UserWriter interface {
	// SaveUser inserts a new user row.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserForUpdateInTx locks and returns a user row within the caller's
	// transaction.
	FindUserForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error)

	// UpdateBalanceInTx overwrites the legacy balance within the caller's
	// transaction.
	UpdateBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, newBalance int64, updatedBy string, updatedAt time.Time) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
