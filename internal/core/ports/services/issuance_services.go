package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// IssueCommand carries everything the issuance engine needs to decide one
// grant. Mode is read once by the caller and threaded through; the engine
// never re-reads it.
type IssueCommand struct {
	Mode           domain.Mode
	UserID         string
	PublishEventID string
	Platform       string
	QAStatus       domain.QAStatus
	AuditOK        bool
	Now            time.Time
}

// IssuanceSvcFacade decides whether and how much RING to grant for one
// publish event and records the grant in the pending store (shadow) or the
// ledger plus legacy balance (live). It runs inside the transaction opened by
// the idempotency layer so the publish event row, the ledger/pending row, the
// legacy balance, and the guardrail counters commit as one unit.
type IssuanceSvcFacade interface {
	IssueInTx(ctx context.Context, tx pgx.Tx, cmd IssueCommand) (domain.TokenResult, error)
}
