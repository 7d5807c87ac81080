package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// GuardrailSvcFacade evaluates and maintains the per-user anti-gaming
// counters. Evaluate is a plain read; RecordEarn mutates the persisted state
// row and must run inside the issuance transaction so two concurrent earns
// from the same user cannot both pass the cap check on stale counters.
type GuardrailSvcFacade interface {
	// Evaluate runs every guardrail rule for the user and combines triggered
	// rules by taking the maximum reduction. First observation of a user
	// succeeds with no violations.
	Evaluate(ctx context.Context, userID string, now time.Time) (domain.GuardrailVerdict, error)

	// RecordEarn increments the user's rolling counters after an accepted
	// earn, within the caller's transaction.
	RecordEarn(ctx context.Context, tx pgx.Tx, userID string, amount int64, now time.Time) error
}
