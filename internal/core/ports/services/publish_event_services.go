package services

import (
	"context"
	"time"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// PublishConfirmation is the tuple delivered by the publish-confirmation
// collaborator. EventID is the externally supplied idempotency key.
type PublishConfirmation struct {
	EventID        string
	UserID         string
	Platform       string
	ContentHash    string
	PlatformPostID string
	PublishedAt    time.Time
	ReceiptID      string
	AuditOK        bool
}

// PublishEventSvcFacade binds one issuance outcome to one publish attempt,
// replay-safe. A second call with the same event id returns the stored
// result with reason IDEMPOTENT_REPLAY and creates no new rows.
type PublishEventSvcFacade interface {
	Handle(ctx context.Context, mode domain.Mode, req PublishConfirmation) (domain.TokenResult, error)
}
