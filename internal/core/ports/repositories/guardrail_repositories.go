package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// GuardrailRepositoryFacade persists the per-user guardrail counter rows.
// Counters must never live in process memory: multiple server instances run
// concurrently, so serialization happens at the row level.
type GuardrailRepositoryFacade interface {
	// FindState returns a user's guardrail state, or apperrors.ErrNotFound on
	// first observation.
	FindState(ctx context.Context, userID string) (*domain.GuardrailState, error)

	// FindStateForUpdateInTx locks and returns a user's guardrail state within
	// the caller's transaction. Returns apperrors.ErrNotFound if absent.
	FindStateForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.GuardrailState, error)

	// InsertStateInTx creates the initial state row for a user. Returns
	// apperrors.ErrDuplicate if another request created it first.
	InsertStateInTx(ctx context.Context, tx pgx.Tx, state domain.GuardrailState) error

	// UpdateStateInTx writes the state back using its version for optimistic
	// concurrency. Returns apperrors.ErrConflict when the version no longer
	// matches, meaning another request already recorded this user's earn.
	UpdateStateInTx(ctx context.Context, tx pgx.Tx, state domain.GuardrailState) error
}
