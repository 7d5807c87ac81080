package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	"github.com/ringlabs/ring_token_engine/internal/models"
	"github.com/ringlabs/ring_token_engine/internal/utils/mapping"
	"github.com/ringlabs/ring_token_engine/internal/utils/pagination"
)

const ledgerEntryColumns = `entry_id, user_id, kind, reason_code, amount, balance_after, metadata, created_at`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the append-only ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveEntryInTx appends a ledger entry within the caller's transaction.
func (r *PgxLedgerRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	modelEntry, err := mapping.ToModelLedgerEntry(entry)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode metadata for ledger entry "+entry.EntryID, err)
	}
	query := `
		INSERT INTO ring_ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, query,
		modelEntry.EntryID,
		modelEntry.UserID,
		modelEntry.Kind,
		modelEntry.ReasonCode,
		modelEntry.Amount,
		modelEntry.BalanceAfter,
		modelEntry.Metadata,
		modelEntry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entry "+entry.EntryID, err)
	}
	return nil
}

// FillBalanceAfter sets balance_after on an entry that does not have one yet.
// The WHERE clause is the append-only guard: an entry that already carries a
// running balance is never overwritten.
func (r *PgxLedgerRepository) FillBalanceAfter(ctx context.Context, entryID string, balanceAfter int64) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE ring_ledger_entries
		SET balance_after = $2
		WHERE entry_id = $1 AND balance_after IS NULL;
	`, entryID, balanceAfter)
	if err != nil {
		return apperrors.NewAppError(500, "failed to fill balance_after for entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ring_ledger_entries WHERE entry_id = $1)`, entryID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check ledger entry "+entryID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	return nil
}

// ListEntriesByUser retrieves a user's entries most-recent-first with token
// pagination on (created_at, entry_id).
func (r *PgxLedgerRepository) ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ring_ledger_entries
		WHERE user_id = $1
	`
	args := []any{userID}
	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, err := pagination.DecodeCursorToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, cursorAt, cursorID)
	}
	query += ` ORDER BY created_at DESC, entry_id DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list ledger entries for user "+userID, err)
	}
	defer rows.Close()

	entries, err := scanLedgerEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(pagination.TimeFormat), last.EntryID)
		token = &t
	}
	return entries, token, nil
}

// ListEntriesByUserAsc retrieves all of a user's entries in creation order.
func (r *PgxLedgerRepository) ListEntriesByUserAsc(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+ledgerEntryColumns+`
		FROM ring_ledger_entries
		WHERE user_id = $1
		ORDER BY created_at ASC, entry_id ASC;
	`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list ledger entries for user "+userID, err)
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

// FindLatestEntry returns the most recent entry for a user.
func (r *PgxLedgerRepository) FindLatestEntry(ctx context.Context, userID string) (*domain.LedgerEntry, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+ledgerEntryColumns+`
		FROM ring_ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, entry_id DESC
		LIMIT 1;
	`, userID)

	entry, err := scanLedgerEntryRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest ledger entry for user "+userID, err)
	}
	return entry, nil
}

// SumAmountsExcludingReason returns the sum of entry amounts for a user,
// skipping entries with the given reason code.
func (r *PgxLedgerRepository) SumAmountsExcludingReason(ctx context.Context, userID string, reasonCode string) (int64, error) {
	var sum int64
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM ring_ledger_entries
		WHERE user_id = $1 AND reason_code <> $2;
	`, userID, reasonCode).Scan(&sum)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to sum ledger amounts for user "+userID, err)
	}
	return sum, nil
}

// SumAmountsByKinds returns the sum of entry amounts for a user restricted to
// the given kinds.
func (r *PgxLedgerRepository) SumAmountsByKinds(ctx context.Context, userID string, kinds []domain.EntryKind) (int64, error) {
	kindStrings := make([]string, len(kinds))
	for i, k := range kinds {
		kindStrings[i] = string(k)
	}
	var sum int64
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM ring_ledger_entries
		WHERE user_id = $1 AND kind = ANY($2);
	`, userID, kindStrings).Scan(&sum)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to sum ledger amounts by kind for user "+userID, err)
	}
	return sum, nil
}

// ListUserIDsWithEntries enumerates every user with at least one entry.
func (r *PgxLedgerRepository) ListUserIDsWithEntries(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT DISTINCT user_id FROM ring_ledger_entries ORDER BY user_id;
	`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list users with ledger entries", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(&m.EntryID, &m.UserID, &m.Kind, &m.ReasonCode, &m.Amount, &m.BalanceAfter, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry", err)
		}
		entry, err := mapping.ToDomainLedgerEntry(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode metadata for ledger entry "+m.EntryID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate ledger entries", err)
	}
	return entries, nil
}

func scanLedgerEntryRow(row pgx.Row) (*domain.LedgerEntry, error) {
	var m models.LedgerEntry
	if err := row.Scan(&m.EntryID, &m.UserID, &m.Kind, &m.ReasonCode, &m.Amount, &m.BalanceAfter, &m.Metadata, &m.CreatedAt); err != nil {
		return nil, err
	}
	entry, err := mapping.ToDomainLedgerEntry(m)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func scanStrings(rows pgx.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan row", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate rows", err)
	}
	return out, nil
}
