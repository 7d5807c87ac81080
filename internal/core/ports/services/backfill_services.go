package services

import (
	"context"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// BackfillSvcFacade recomputes missing running totals and validates
// historical ledger consistency. Dry-run is the default posture; mutation
// requires explicit opt-in.
type BackfillSvcFacade interface {
	Run(ctx context.Context, startingBalance int64, dryRun bool) (domain.BackfillReport, error)
}
