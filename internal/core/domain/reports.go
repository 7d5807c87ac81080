package domain

import "time"

// DriftNotification describes one detected disagreement between the
// ledger-derived total and the legacy balance. It is emitted through the
// external notifier; overflow-flagged drifts are reported without writing an
// adjustment.
type DriftNotification struct {
	UserID        string    `json:"userID"`
	LedgerSum     int64     `json:"ledgerSum"`
	LegacyBalance int64     `json:"legacyBalance"`
	Delta         int64     `json:"delta"`
	Mode          Mode      `json:"mode"`
	Overflow      bool      `json:"overflow"`
	DetectedAt    time.Time `json:"detectedAt"`
}

// ReconciliationReport summarizes one reconciliation run. Counts reflect only
// successfully evaluated users; TotalUsers records the full population so the
// gap left by per-user failures stays visible.
type ReconciliationReport struct {
	TotalUsers        int      `json:"totalUsers"`
	EvaluatedUsers    int      `json:"evaluatedUsers"`
	FailedUsers       int      `json:"failedUsers"`
	Mismatches        int      `json:"mismatches"`
	Adjustments       int      `json:"adjustments"`
	Overflows         int      `json:"overflows"`
	PublishMissing    []string `json:"publishMissing"`
	PublishDuplicates []string `json:"publishDuplicates"`
	StartedAt         time.Time `json:"startedAt"`
	FinishedAt        time.Time `json:"finishedAt"`
}

// BackfillReport summarizes one backfill pass over the ledger.
type BackfillReport struct {
	DryRun                     bool  `json:"dryRun"`
	StartingBalance            int64 `json:"startingBalance"`
	Users                      int   `json:"users"`
	Rows                       int   `json:"rows"`
	Updated                    int   `json:"updated"`
	NegativeBalances           int   `json:"negativeBalances"`
	MismatchedRows             int   `json:"mismatchedRows"`
	PublishEventsMissingLedger int   `json:"publishEventsMissingLedger"`
}

// SyncFailure records one user whose external balance sync failed. The batch
// continues past it; a later re-run retries failed users.
type SyncFailure struct {
	UserID   string    `json:"userID"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failedAt"`
}

// SyncReport summarizes one external balance sync batch.
type SyncReport struct {
	DryRun   bool          `json:"dryRun"`
	Total    int           `json:"total"`
	Synced   int           `json:"synced"`
	Failed   int           `json:"failed"`
	Failures []SyncFailure `json:"failures,omitempty"`
}

// BalanceSummary is the read-only number shown to a user, blended from the
// legacy balance, shadow pending totals, and ledger deltas per mode.
type BalanceSummary struct {
	UserID           string     `json:"userID"`
	Mode             Mode       `json:"mode"`
	Balance          int64      `json:"balance"`
	PendingTotal     int64      `json:"pendingTotal"`
	EffectiveBalance int64      `json:"effectiveBalance"`
	LastLedgerAt     *time.Time `json:"lastLedgerAt,omitempty"`
	LastPendingAt    *time.Time `json:"lastPendingAt,omitempty"`
}
