package repositories

import (
	"context"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// ReceiptRepositoryFacade stores enforcement receipts produced by the
// content-quality collaborator. The engine only ever reads them as an
// issuance precondition; SaveReceipt exists for the collaborator's ingest
// path and for tests.
type ReceiptRepositoryFacade interface {
	// SaveReceipt inserts a receipt. Returns apperrors.ErrDuplicate when the
	// receipt id already exists.
	SaveReceipt(ctx context.Context, receipt domain.EnforcementReceipt) error

	// FindReceiptByID retrieves a receipt, or apperrors.ErrNotFound.
	FindReceiptByID(ctx context.Context, receiptID string) (*domain.EnforcementReceipt, error)
}
