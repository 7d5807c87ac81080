package domain

import "time"

// EnforcementReceipt is the externally produced, time-bounded proof that a
// piece of content passed the quality gate. This engine only reads receipts;
// it never computes one.
type EnforcementReceipt struct {
	ReceiptID string    `json:"receiptID"`
	QAStatus  QAStatus  `json:"qaStatus"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the receipt is past its expiry as of now.
func (r EnforcementReceipt) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
