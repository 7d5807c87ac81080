package services

import (
	"context"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// ReconciliationSvcFacade runs the scheduled full scan that detects
// ledger/balance drift and missing or duplicate issuance. One user's failure
// never aborts the scan for the rest; the run is naturally restartable.
type ReconciliationSvcFacade interface {
	Run(ctx context.Context, mode domain.Mode) (domain.ReconciliationReport, error)
}
