package models

import "time"

// EnforcementReceipt is the persistence row for enforcement_receipts.
type EnforcementReceipt struct {
	ReceiptID string    `json:"receiptID"`
	QAStatus  string    `json:"qaStatus"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
