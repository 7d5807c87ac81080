package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	"github.com/ringlabs/ring_token_engine/internal/models"
	"github.com/ringlabs/ring_token_engine/internal/utils/mapping"
)

const userColumns = `user_id, name, ring_balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for users and the legacy
// ring_balance column.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// SaveUser inserts a new user row.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, m.UserID, m.Name, m.RingBalance, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save user "+user.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a user without locking.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE user_id = $1;
	`, userID)
	return scanUser(row, userID)
}

// ListUserIDs enumerates all user ids.
func (r *PgxUserRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT user_id FROM users ORDER BY user_id;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list user ids", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// FindUserForUpdateInTx locks and returns a user row within the caller's
// transaction. This is the serialization point for legacy balance mutation.
func (r *PgxUserRepository) FindUserForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE user_id = $1 FOR UPDATE;
	`, userID)
	return scanUser(row, userID)
}

// UpdateBalanceInTx overwrites the legacy balance within the caller's
// transaction.
func (r *PgxUserRepository) UpdateBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, newBalance int64, updatedBy string, updatedAt time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET ring_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1;
	`, userID, newBalance, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update balance for user "+userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, userID string) (*domain.User, error) {
	var m models.User
	err := row.Scan(&m.UserID, &m.Name, &m.RingBalance, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+userID, err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}
