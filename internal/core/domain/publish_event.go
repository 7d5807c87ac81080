package domain

import "time"

// QAStatus is the quality-gate verdict carried by an enforcement receipt.
type QAStatus string

const (
	QAPass QAStatus = "PASS"
	QAFail QAStatus = "FAIL"
)

// ReasonCode is an expected decision outcome, returned to callers as data.
// A rejected issuance is indistinguishable at the API layer from a
// zero-amount success; callers branch on the reason code.
type ReasonCode string

const (
	ReasonIssued                      ReasonCode = "ISSUED"
	ReasonPending                     ReasonCode = "PENDING"
	ReasonTokenIssuanceOff            ReasonCode = "TOKEN_ISSUANCE_OFF"
	ReasonQANotPass                   ReasonCode = "QA_NOT_PASS"
	ReasonAuditNotOK                  ReasonCode = "AUDIT_NOT_OK"
	ReasonGuardrailBlocked            ReasonCode = "GUARDRAIL_BLOCKED"
	ReasonPlatformConfirmationMissing ReasonCode = "PLATFORM_CONFIRMATION_MISSING"
	ReasonIdempotentReplay            ReasonCode = "IDEMPOTENT_REPLAY"
	ReasonReceiptRequired             ReasonCode = "ENFORCEMENT_RECEIPT_REQUIRED"
	ReasonReceiptInvalid              ReasonCode = "ENFORCEMENT_RECEIPT_INVALID"
	ReasonReceiptExpired              ReasonCode = "ENFORCEMENT_RECEIPT_EXPIRED"
)

// TokenResult is the final token outcome bound to one publish event. At most
// one non-replay result ever exists per event id.
type TokenResult struct {
	Mode            Mode       `json:"mode"`
	Issued          bool       `json:"issued"`
	IssuedAmount    int64      `json:"issuedAmount"`
	PendingAmount   int64      `json:"pendingAmount"`
	ReasonCode      ReasonCode `json:"reasonCode"`
	LedgerEntryID   *string    `json:"ledgerEntryID,omitempty"`
	PendingRewardID *string    `json:"pendingRewardID,omitempty"`
	Violations      []string   `json:"violations,omitempty"`
	DecidedAt       time.Time  `json:"decidedAt"`
}

// PublishEvent records one external publish attempt, keyed by the externally
// supplied idempotency id. The primary key on EventID is the mechanism that
// converts a race between duplicate submissions into "first writer wins,
// second reads the result".
type PublishEvent struct {
	EventID        string       `json:"eventID"`
	UserID         string       `json:"userID"`
	Platform       string       `json:"platform"`
	ContentHash    string       `json:"contentHash"`
	PlatformPostID string       `json:"platformPostID"`
	PublishedAt    time.Time    `json:"publishedAt"`
	ReceiptID      string       `json:"receiptID"`
	QAStatus       QAStatus     `json:"qaStatus"`
	Result         *TokenResult `json:"result,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}
