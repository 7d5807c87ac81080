package services

import (
	"context"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// ReceiptSvcFacade is the ingest/read surface for enforcement receipts. The
// engine itself only reads; storing exists for the enforcement collaborator's
// delivery path.
type ReceiptSvcFacade interface {
	StoreReceipt(ctx context.Context, receipt domain.EnforcementReceipt) error
	GetReceiptByID(ctx context.Context, receiptID string) (*domain.EnforcementReceipt, error)
}
