package models

import "time"

// PendingReward is the persistence row for ring_pending_rewards.
type PendingReward struct {
	PendingID  string    `json:"pendingID"`
	UserID     string    `json:"userID"`
	Amount     int64     `json:"amount"`
	ReasonCode string    `json:"reasonCode"`
	Status     string    `json:"status"`
	Metadata   []byte    `json:"metadata"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
