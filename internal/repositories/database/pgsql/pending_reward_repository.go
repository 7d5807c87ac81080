package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	"github.com/ringlabs/ring_token_engine/internal/models"
	"github.com/ringlabs/ring_token_engine/internal/utils/mapping"
)

const pendingRewardColumns = `pending_id, user_id, amount, reason_code, status, metadata, created_at, updated_at`

type PgxPendingRewardRepository struct {
	BaseRepository
}

// newPgxPendingRewardRepository creates a new repository for shadow-mode
// pending rewards.
func newPgxPendingRewardRepository(pool *pgxpool.Pool) portsrepo.PendingRewardRepositoryFacade {
	return &PgxPendingRewardRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PendingRewardRepositoryFacade = (*PgxPendingRewardRepository)(nil)

// SavePendingInTx inserts a pending reward within the caller's transaction.
func (r *PgxPendingRewardRepository) SavePendingInTx(ctx context.Context, tx pgx.Tx, pending domain.PendingReward) error {
	modelPending, err := mapping.ToModelPendingReward(pending)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode metadata for pending reward "+pending.PendingID, err)
	}
	query := `
		INSERT INTO ring_pending_rewards (` + pendingRewardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, query,
		modelPending.PendingID,
		modelPending.UserID,
		modelPending.Amount,
		modelPending.ReasonCode,
		modelPending.Status,
		modelPending.Metadata,
		modelPending.CreatedAt,
		modelPending.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert pending reward "+pending.PendingID, err)
	}
	return nil
}

// TransitionStatus moves a pending reward between statuses. The from clause
// enforces that status transitions are the only sanctioned mutation.
func (r *PgxPendingRewardRepository) TransitionStatus(ctx context.Context, pendingID string, from, to domain.PendingStatus) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE ring_pending_rewards
		SET status = $3, updated_at = NOW()
		WHERE pending_id = $1 AND status = $2;
	`, pendingID, string(from), string(to))
	if err != nil {
		return apperrors.NewAppError(500, "failed to transition pending reward "+pendingID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ring_pending_rewards WHERE pending_id = $1)`, pendingID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check pending reward "+pendingID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	return nil
}

// SumQueuedByUser returns the total amount and count of queued pending
// rewards for a user.
func (r *PgxPendingRewardRepository) SumQueuedByUser(ctx context.Context, userID string) (int64, int, error) {
	var total int64
	var count int
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM ring_pending_rewards
		WHERE user_id = $1 AND status = $2;
	`, userID, string(domain.PendingQueued)).Scan(&total, &count)
	if err != nil {
		return 0, 0, apperrors.NewAppError(500, "failed to sum queued pending rewards for user "+userID, err)
	}
	return total, count, nil
}

// FindLatestByUser returns the most recent pending reward for a user.
func (r *PgxPendingRewardRepository) FindLatestByUser(ctx context.Context, userID string) (*domain.PendingReward, error) {
	var m models.PendingReward
	err := r.Pool.QueryRow(ctx, `
		SELECT `+pendingRewardColumns+`
		FROM ring_pending_rewards
		WHERE user_id = $1
		ORDER BY created_at DESC, pending_id DESC
		LIMIT 1;
	`, userID).Scan(&m.PendingID, &m.UserID, &m.Amount, &m.ReasonCode, &m.Status, &m.Metadata, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest pending reward for user "+userID, err)
	}
	pending, err := mapping.ToDomainPendingReward(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode metadata for pending reward "+m.PendingID, err)
	}
	return &pending, nil
}

