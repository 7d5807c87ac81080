package models

import "time"

// GuardrailState is the persistence row for ring_guardrail_states. Version
// backs the optimistic concurrency check on updates.
type GuardrailState struct {
	UserID         string     `json:"userID"`
	DailyEarnCount int        `json:"dailyEarnCount"`
	DailyEarnTotal int64      `json:"dailyEarnTotal"`
	LastEarnAt     *time.Time `json:"lastEarnAt"`
	WindowResetAt  time.Time  `json:"windowResetAt"`
	Version        int64      `json:"version"`
}
