package services

import (
	"context"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// SyncParams scopes one external balance sync batch. An empty UserID means
// the full population.
type SyncParams struct {
	Mode           domain.Mode
	UserID         string
	DryRun         bool
	CallsPerMinute int
}

// SyncSvcFacade mirrors resolved balances to the external identity provider,
// one blocking call per user, paced by the calls-per-minute limit. A failure
// for one user is recorded and does not halt the batch.
type SyncSvcFacade interface {
	Run(ctx context.Context, params SyncParams) (domain.SyncReport, error)
}

// IdentityProviderClient is the narrow port to the external identity
// provider that mirrors user balances.
type IdentityProviderClient interface {
	UpdateBalance(ctx context.Context, userID string, balance int64) error
}
