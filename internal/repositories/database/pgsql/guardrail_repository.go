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

const guardrailColumns = `user_id, daily_earn_count, daily_earn_total, last_earn_at, window_reset_at, version`

type PgxGuardrailRepository struct {
	BaseRepository
}

// newPgxGuardrailRepository creates a new repository for the per-user
// guardrail counter rows.
func newPgxGuardrailRepository(pool *pgxpool.Pool) portsrepo.GuardrailRepositoryFacade {
	return &PgxGuardrailRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GuardrailRepositoryFacade = (*PgxGuardrailRepository)(nil)

// FindState returns a user's guardrail state without locking.
func (r *PgxGuardrailRepository) FindState(ctx context.Context, userID string) (*domain.GuardrailState, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+guardrailColumns+`
		FROM ring_guardrail_states
		WHERE user_id = $1;
	`, userID)
	return scanGuardrailState(row, userID)
}

// FindStateForUpdateInTx locks the user's state row for the duration of the
// caller's transaction. This is the serialization point that stops two
// concurrent earns from reading the same stale counters.
func (r *PgxGuardrailRepository) FindStateForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.GuardrailState, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+guardrailColumns+`
		FROM ring_guardrail_states
		WHERE user_id = $1
		FOR UPDATE;
	`, userID)
	return scanGuardrailState(row, userID)
}

// InsertStateInTx creates the initial counter row for a user.
func (r *PgxGuardrailRepository) InsertStateInTx(ctx context.Context, tx pgx.Tx, state domain.GuardrailState) error {
	m := mapping.ToModelGuardrailState(state)
	_, err := tx.Exec(ctx, `
		INSERT INTO ring_guardrail_states (`+guardrailColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, m.UserID, m.DailyEarnCount, m.DailyEarnTotal, m.LastEarnAt, m.WindowResetAt, m.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert guardrail state for user "+state.UserID, err)
	}
	return nil
}

// UpdateStateInTx writes the state back, guarded by the row version. Zero
// rows affected means another request recorded an earn for this user first.
func (r *PgxGuardrailRepository) UpdateStateInTx(ctx context.Context, tx pgx.Tx, state domain.GuardrailState) error {
	m := mapping.ToModelGuardrailState(state)
	tag, err := tx.Exec(ctx, `
		UPDATE ring_guardrail_states
		SET daily_earn_count = $2,
		    daily_earn_total = $3,
		    last_earn_at = $4,
		    window_reset_at = $5,
		    version = version + 1
		WHERE user_id = $1 AND version = $6;
	`, m.UserID, m.DailyEarnCount, m.DailyEarnTotal, m.LastEarnAt, m.WindowResetAt, m.Version)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update guardrail state for user "+state.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

func scanGuardrailState(row pgx.Row, userID string) (*domain.GuardrailState, error) {
	var m models.GuardrailState
	err := row.Scan(&m.UserID, &m.DailyEarnCount, &m.DailyEarnTotal, &m.LastEarnAt, &m.WindowResetAt, &m.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find guardrail state for user "+userID, err)
	}
	state := mapping.ToDomainGuardrailState(m)
	return &state, nil
}
