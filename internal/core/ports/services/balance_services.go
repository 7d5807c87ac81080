package services

import (
	"context"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// BalanceSvcFacade computes the number shown to a user. It is strictly
// read-only.
type BalanceSvcFacade interface {
	// Resolve blends the legacy balance, shadow pending totals, and ledger
	// deltas according to the given mode.
	Resolve(ctx context.Context, mode domain.Mode, userID string) (domain.BalanceSummary, error)

	// PendingSummary returns the total amount and count of a user's queued
	// pending rewards.
	PendingSummary(ctx context.Context, userID string) (domain.PendingSummary, error)

	// LedgerEntries lists a user's ledger entries, most recent first, with
	// token pagination.
	LedgerEntries(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// RecentPublishEvents lists a user's most recent publish events.
	RecentPublishEvents(ctx context.Context, userID string, limit int) ([]domain.PublishEvent, error)

	// ExpirePending transitions a queued pending reward to expired.
	ExpirePending(ctx context.Context, pendingID string) error
}
