package domain

// User carries the legacy mutable RING balance. The ledger is the source of
// truth once live; RingBalance is kept consistent with it by issuance and
// reconciliation, and is the fallback for users with no ledger entries yet.
type User struct {
	UserID      string `json:"userID"`
	Name        string `json:"name"`
	RingBalance int64  `json:"ringBalance"`
	AuditFields
}
