package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	"github.com/ringlabs/ring_token_engine/internal/models"
	"github.com/ringlabs/ring_token_engine/internal/utils/mapping"
)

const publishEventColumns = `event_id, user_id, platform, content_hash, platform_post_id, published_at,
	receipt_id, qa_status, result_mode, issued, issued_amount, pending_amount, reason_code,
	ledger_entry_id, pending_id, violations, decided_at, created_at`

type PgxPublishEventRepository struct {
	BaseRepository
}

// newPgxPublishEventRepository creates a new repository for publish events.
// It also serves as the transaction manager for the issuance path, since the
// event row must commit together with any ledger or pending write.
func newPgxPublishEventRepository(pool *pgxpool.Pool) portsrepo.PublishEventRepositoryWithTx {
	return &PgxPublishEventRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PublishEventRepositoryWithTx = (*PgxPublishEventRepository)(nil)

// InsertEventInTx inserts the undecided event row, claiming the idempotency
// key. A primary key violation means another request claimed it first.
func (r *PgxPublishEventRepository) InsertEventInTx(ctx context.Context, tx pgx.Tx, event domain.PublishEvent) error {
	m := mapping.ToModelPublishEvent(event)
	_, err := tx.Exec(ctx, `
		INSERT INTO ring_publish_events (event_id, user_id, platform, content_hash, platform_post_id, published_at, receipt_id, qa_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, m.EventID, m.UserID, m.Platform, m.ContentHash, m.PlatformPostID, m.PublishedAt, m.ReceiptID, m.QAStatus, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert publish event "+event.EventID, err)
	}
	return nil
}

// UpdateResultInTx records the final token result on the event row. The
// decided_at IS NULL guard keeps the first decision immutable.
func (r *PgxPublishEventRepository) UpdateResultInTx(ctx context.Context, tx pgx.Tx, eventID string, result domain.TokenResult) error {
	tag, err := tx.Exec(ctx, `
		UPDATE ring_publish_events
		SET result_mode = $2,
		    issued = $3,
		    issued_amount = $4,
		    pending_amount = $5,
		    reason_code = $6,
		    ledger_entry_id = $7,
		    pending_id = $8,
		    violations = $9,
		    decided_at = $10
		WHERE event_id = $1 AND decided_at IS NULL;
	`, eventID, string(result.Mode), result.Issued, result.IssuedAmount, result.PendingAmount,
		string(result.ReasonCode), result.LedgerEntryID, result.PendingRewardID, result.Violations, result.DecidedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record result for publish event "+eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// FindEventByID retrieves a publish event by its idempotency id.
func (r *PgxPublishEventRepository) FindEventByID(ctx context.Context, eventID string) (*domain.PublishEvent, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+publishEventColumns+`
		FROM ring_publish_events
		WHERE event_id = $1;
	`, eventID)

	event, err := scanPublishEventRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find publish event "+eventID, err)
	}
	return event, nil
}

// ListRecentByUser retrieves a user's most recent publish events.
func (r *PgxPublishEventRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.PublishEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT `+publishEventColumns+`
		FROM ring_publish_events
		WHERE user_id = $1
		ORDER BY created_at DESC, event_id DESC
		LIMIT $2;
	`, userID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list publish events for user "+userID, err)
	}
	defer rows.Close()

	var events []domain.PublishEvent
	for rows.Next() {
		event, err := scanPublishEventRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan publish event", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate publish events", err)
	}
	return events, nil
}

// ListDecidedMissingRefs returns event ids whose recorded decision was a
// shadow or live grant but which reference neither a ledger entry nor a
// pending reward.
func (r *PgxPublishEventRepository) ListDecidedMissingRefs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT event_id
		FROM ring_publish_events
		WHERE decided_at IS NOT NULL
		  AND result_mode IN ($1, $2)
		  AND reason_code IN ($3, $4)
		  AND ledger_entry_id IS NULL
		  AND pending_id IS NULL;
	`, string(domain.ModeShadow), string(domain.ModeLive), string(domain.ReasonIssued), string(domain.ReasonPending))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan publish events for missing refs", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// ListDuplicateTokenRefs returns publish-event ids referenced by more than
// one ledger entry or pending reward, counting across both tables so that a
// ledger row and a pending row crediting the same event are caught. The
// idempotency layer should make any hit impossible; a result here is a
// correctness alarm.
func (r *PgxPublishEventRepository) ListDuplicateTokenRefs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT ref FROM (
			SELECT metadata->>'publish_event_id' AS ref
			FROM ring_ledger_entries
			WHERE metadata->>'publish_event_id' IS NOT NULL
			UNION ALL
			SELECT metadata->>'publish_event_id' AS ref
			FROM ring_pending_rewards
			WHERE metadata->>'publish_event_id' IS NOT NULL
		) refs
		GROUP BY ref
		HAVING COUNT(*) > 1
		ORDER BY ref;
	`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan for duplicate publish event refs", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanPublishEventRow(row pgx.Row) (*domain.PublishEvent, error) {
	var m models.PublishEvent
	err := row.Scan(&m.EventID, &m.UserID, &m.Platform, &m.ContentHash, &m.PlatformPostID, &m.PublishedAt,
		&m.ReceiptID, &m.QAStatus, &m.ResultMode, &m.Issued, &m.IssuedAmount, &m.PendingAmount, &m.ReasonCode,
		&m.LedgerEntryID, &m.PendingID, &m.Violations, &m.DecidedAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	event := mapping.ToDomainPublishEvent(m)
	return &event, nil
}
