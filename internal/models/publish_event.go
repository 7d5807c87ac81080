package models

import "time"

// PublishEvent is the persistence row for ring_publish_events. The result
// columns are null until the event is decided; event_id is the primary key
// and the idempotency anchor.
type PublishEvent struct {
	EventID        string     `json:"eventID"`
	UserID         string     `json:"userID"`
	Platform       string     `json:"platform"`
	ContentHash    string     `json:"contentHash"`
	PlatformPostID string     `json:"platformPostID"`
	PublishedAt    time.Time  `json:"publishedAt"`
	ReceiptID      string     `json:"receiptID"`
	QAStatus       string     `json:"qaStatus"`
	ResultMode     *string    `json:"resultMode"`
	Issued         *bool      `json:"issued"`
	IssuedAmount   *int64     `json:"issuedAmount"`
	PendingAmount  *int64     `json:"pendingAmount"`
	ReasonCode     *string    `json:"reasonCode"`
	LedgerEntryID  *string    `json:"ledgerEntryID"`
	PendingID      *string    `json:"pendingID"`
	Violations     []string   `json:"violations"`
	DecidedAt      *time.Time `json:"decidedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}
