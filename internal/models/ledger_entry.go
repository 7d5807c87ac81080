package models

import "time"

// LedgerEntry is the persistence row for ring_ledger_entries. Metadata holds
// the raw jsonb envelope.
type LedgerEntry struct {
	EntryID      string    `json:"entryID"`
	UserID       string    `json:"userID"`
	Kind         string    `json:"kind"`
	ReasonCode   string    `json:"reasonCode"`
	Amount       int64     `json:"amount"`
	BalanceAfter *int64    `json:"balanceAfter"`
	Metadata     []byte    `json:"metadata"`
	CreatedAt    time.Time `json:"createdAt"`
}
