package models

import "time"

// User is the persistence row for users, carrying the legacy ring_balance
// column.
type User struct {
	UserID        string    `json:"userID"`
	Name          string    `json:"name"`
	RingBalance   int64     `json:"ringBalance"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
