package services

import (
	"context"
	"fmt"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
)

// receiptService is the ingest and read surface for enforcement receipts.
// The engine never computes a verdict itself; it only stores what the
// enforcement collaborator delivers.
type receiptService struct {
	receiptRepo portsrepo.ReceiptRepositoryFacade
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(receiptRepo portsrepo.ReceiptRepositoryFacade) portssvc.ReceiptSvcFacade {
	return &receiptService{receiptRepo: receiptRepo}
}

var _ portssvc.ReceiptSvcFacade = (*receiptService)(nil)

func (s *receiptService) StoreReceipt(ctx context.Context, receipt domain.EnforcementReceipt) error {
	if receipt.ReceiptID == "" {
		return apperrors.NewAppError(400, "receipt id is required", apperrors.ErrValidation)
	}
	if receipt.QAStatus != domain.QAPass && receipt.QAStatus != domain.QAFail {
		return apperrors.NewAppError(400, fmt.Sprintf("unknown qa status %q", receipt.QAStatus), apperrors.ErrValidation)
	}
	if receipt.ExpiresAt.IsZero() {
		return apperrors.NewAppError(400, "receipt expiry is required", apperrors.ErrValidation)
	}
	if err := s.receiptRepo.SaveReceipt(ctx, receipt); err != nil {
		return fmt.Errorf("failed to store receipt %s: %w", receipt.ReceiptID, err)
	}
	return nil
}

func (s *receiptService) GetReceiptByID(ctx context.Context, receiptID string) (*domain.EnforcementReceipt, error) {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt %s: %w", receiptID, err)
	}
	return receipt, nil
}
