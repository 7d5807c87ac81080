package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// PublishEventReader defines read operations for publish events.
type PublishEventReader interface {
	// FindEventByID retrieves a publish event by its idempotency id, or
	// apperrors.ErrNotFound.
	FindEventByID(ctx context.Context, eventID string) (*domain.PublishEvent, error)

	// ListRecentByUser retrieves a user's most recent publish events.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.PublishEvent, error)

	// ListDecidedMissingRefs returns event ids whose recorded result is a
	// shadow/live grant but which reference neither a ledger entry nor a
	// pending reward.
	ListDecidedMissingRefs(ctx context.Context) ([]string, error)

	// ListDuplicateTokenRefs returns publish-event ids referenced by more than
	// one ledger entry or pending reward, counted across both tables. A single
	// ledger row plus a single pending row for the same event is a double
	// credit and is reported.
	ListDuplicateTokenRefs(ctx context.Context) ([]string, error)
}

// PublishEventWriter defines write operations for publish events.
type PublishEventWriter interface {
	// InsertEventInTx inserts the event row, claiming the idempotency key.
	// Returns apperrors.ErrDuplicate when another request already claimed it;
	// callers treat that as "someone else already decided this event" and
	// re-read the decision instead of erroring.
	InsertEventInTx(ctx context.Context, tx pgx.Tx, event domain.PublishEvent) error

	// UpdateResultInTx records the final token result on the event row within
	// the same transaction as any ledger or pending write.
	UpdateResultInTx(ctx context.Context, tx pgx.Tx, eventID string, result domain.TokenResult) error
}

// PublishEventRepositoryFacade combines all publish event interfaces.
type PublishEventRepositoryFacade interface {
	PublishEventReader
	PublishEventWriter
}

// PublishEventRepositoryWithTx extends the facade with transaction
// capabilities; the idempotency layer drives the issuance transaction
// through it.
type PublishEventRepositoryWithTx interface {
	PublishEventRepositoryFacade
	TransactionManager
}
