package domain

import "time"

// PendingStatus is the lifecycle state of a shadow-mode pending reward.
type PendingStatus string

const (
	PendingQueued   PendingStatus = "QUEUED"
	PendingConsumed PendingStatus = "CONSUMED"
	PendingExpired  PendingStatus = "EXPIRED"
)

// PendingReward represents an amount that would have been earned while
// issuance runs in shadow mode. It is mutable only via status transition
// (queued -> consumed/expired).
type PendingReward struct {
	PendingID  string        `json:"pendingID"`
	UserID     string        `json:"userID"`
	Amount     int64         `json:"amount"`
	ReasonCode string        `json:"reasonCode"`
	Status     PendingStatus `json:"status"`
	Metadata   Metadata      `json:"metadata"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// PendingSummary aggregates a user's queued pending rewards.
type PendingSummary struct {
	UserID      string `json:"userID"`
	TotalAmount int64  `json:"totalAmount"`
	Count       int    `json:"count"`
}
