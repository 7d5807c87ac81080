package domain

import "time"

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryEarn       EntryKind = "EARN"
	EntrySpend      EntryKind = "SPEND"
	EntryPenalty    EntryKind = "PENALTY"
	EntryAdjustment EntryKind = "ADJUSTMENT"
)

// Reason codes recorded on ledger entries.
const (
	ReasonPublishReward          = "publish_reward"
	ReasonReconciliationMismatch = "reconciliation_mismatch"
)

// Metadata is the typed envelope attached to ledger entries and pending
// rewards. PublishEventID is the stable field the idempotency and
// reconciliation cross-checks rely on; Extra is an open extension map.
type Metadata struct {
	PublishEventID string            `json:"publish_event_id,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// LedgerEntry is an immutable, signed-amount accounting record. Entries are
// only ever created; the single exception is the backfill tool filling a
// previously-null BalanceAfter.
//
// Invariant: for a user's entries ordered by CreatedAt,
// balanceAfter[i] == balanceAfter[i-1] + amount[i], seeded at zero (or the
// documented backfill starting balance).
type LedgerEntry struct {
	EntryID      string    `json:"entryID"`
	UserID       string    `json:"userID"`
	Kind         EntryKind `json:"kind"`
	ReasonCode   string    `json:"reasonCode"`
	Amount       int64     `json:"amount"`
	BalanceAfter *int64    `json:"balanceAfter"` // nil only for legacy rows awaiting backfill
	Metadata     Metadata  `json:"metadata"`
	CreatedAt    time.Time `json:"createdAt"`
}
