package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// PendingRewardReader defines read operations for shadow-mode pending rewards.
type PendingRewardReader interface {
	// SumQueuedByUser returns the total amount and count of a user's queued
	// pending rewards.
	SumQueuedByUser(ctx context.Context, userID string) (int64, int, error)

	// FindLatestByUser returns the most recent pending reward for a user, or
	// apperrors.ErrNotFound if none exists.
	FindLatestByUser(ctx context.Context, userID string) (*domain.PendingReward, error)
}

// PendingRewardWriter defines write operations for pending rewards.
type PendingRewardWriter interface {
	// SavePendingInTx inserts a pending reward within the caller's transaction.
	SavePendingInTx(ctx context.Context, tx pgx.Tx, pending domain.PendingReward) error

	// TransitionStatus moves a pending reward from one status to another.
	// Returns apperrors.ErrConflict if the reward is not currently in the
	// expected from status.
	TransitionStatus(ctx context.Context, pendingID string, from, to domain.PendingStatus) error
}

// PendingRewardRepositoryFacade combines all pending reward interfaces.
type PendingRewardRepositoryFacade interface {
	PendingRewardReader
	PendingRewardWriter
}
