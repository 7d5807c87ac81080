package domain

import "time"

// Guardrail violation identifiers, reported to callers alongside the
// reduction percentage.
const (
	ViolationDailyCap    = "daily_cap_reached"
	ViolationMinInterval = "min_interval_not_elapsed"
	ViolationAnomaly     = "anomalous_earn_rate"
)

// GuardrailState is the persisted per-user rolling counter row. It is the
// only guardrail source of truth; counters are never kept in process memory
// since multiple server instances run concurrently. Mutation happens under a
// row-level lock inside the issuance transaction.
type GuardrailState struct {
	UserID         string     `json:"userID"`
	DailyEarnCount int        `json:"dailyEarnCount"`
	DailyEarnTotal int64      `json:"dailyEarnTotal"`
	LastEarnAt     *time.Time `json:"lastEarnAt"`
	WindowResetAt  time.Time  `json:"windowResetAt"`
	Version        int64      `json:"version"`
}

// ResetIfExpired zeroes the counters and advances the window boundary when
// now has passed the boundary plus 24h. The reset is idempotent: applying it
// twice for the same now is a no-op the second time.
func (s *GuardrailState) ResetIfExpired(now time.Time) bool {
	if now.Before(s.WindowResetAt.Add(24 * time.Hour)) {
		return false
	}
	s.DailyEarnCount = 0
	s.DailyEarnTotal = 0
	s.WindowResetAt = now
	return true
}

// GuardrailVerdict is the outcome of evaluating all guardrail rules for a
// user. Simultaneous violations combine by taking the maximum reduction, not
// by stacking.
type GuardrailVerdict struct {
	Allowed          bool     `json:"allowed"`
	Violations       []string `json:"violations"`
	ReductionPercent int      `json:"reductionPercent"`
}

// ApplyReduction computes the granted amount after the verdict's reduction,
// using integer floor division.
func (v GuardrailVerdict) ApplyReduction(baseAmount int64) int64 {
	return baseAmount * int64(100-v.ReductionPercent) / 100
}
