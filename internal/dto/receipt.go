package dto

import (
	"time"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// StoreReceiptRequest seeds an enforcement receipt from the quality-gate
// collaborator.
type StoreReceiptRequest struct {
	ReceiptID string    `json:"receiptID" binding:"required"`
	QAStatus  string    `json:"qaStatus" binding:"required,oneof=PASS FAIL"`
	ExpiresAt time.Time `json:"expiresAt" binding:"required"`
}

// ToDomainReceipt converts the request to a domain receipt.
func (r StoreReceiptRequest) ToDomainReceipt(now time.Time) domain.EnforcementReceipt {
	return domain.EnforcementReceipt{
		ReceiptID: r.ReceiptID,
		QAStatus:  domain.QAStatus(r.QAStatus),
		ExpiresAt: r.ExpiresAt,
		CreatedAt: now,
	}
}

// ReceiptResponse is the stored receipt returned to collaborators.
type ReceiptResponse struct {
	ReceiptID string    `json:"receiptID"`
	QAStatus  string    `json:"qaStatus"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToReceiptResponse converts a domain receipt to its response DTO.
func ToReceiptResponse(receipt domain.EnforcementReceipt) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID: receipt.ReceiptID,
		QAStatus:  string(receipt.QAStatus),
		ExpiresAt: receipt.ExpiresAt,
		CreatedAt: receipt.CreatedAt,
	}
}
