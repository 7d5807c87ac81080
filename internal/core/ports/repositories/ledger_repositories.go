package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// LedgerReader defines read operations over the append-only ledger.
type LedgerReader interface {
	// ListEntriesByUser retrieves a paginated list of a user's ledger entries,
	// most recent first, using token-based pagination.
	ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// ListEntriesByUserAsc retrieves all of a user's ledger entries in
	// creation order. Used by the backfill tool's running-total walk.
	ListEntriesByUserAsc(ctx context.Context, userID string) ([]domain.LedgerEntry, error)

	// FindLatestEntry returns the most recent entry for a user, or
	// apperrors.ErrNotFound if the user has no entries.
	FindLatestEntry(ctx context.Context, userID string) (*domain.LedgerEntry, error)

	// SumAmountsExcludingReason returns the sum of entry amounts for a user,
	// skipping entries carrying the given reason code. Reconciliation uses it
	// to compute drift without counting its own prior adjustments, so a healed
	// user reads as converged on the next run.
	SumAmountsExcludingReason(ctx context.Context, userID string, reasonCode string) (int64, error)

	// SumAmountsByKinds returns the sum of entry amounts for a user restricted
	// to the given kinds.
	SumAmountsByKinds(ctx context.Context, userID string, kinds []domain.EntryKind) (int64, error)

	// ListUserIDsWithEntries enumerates every user with at least one entry.
	ListUserIDsWithEntries(ctx context.Context) ([]string, error)
}

// LedgerWriter defines the narrow write surface of the ledger. Entries are
// append-only; FillBalanceAfter is the single sanctioned mutation and only
// fills a previously-null running balance.
type LedgerWriter interface {
	// SaveEntryInTx appends an entry within the caller's transaction.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error

	// FillBalanceAfter sets balance_after on an entry where it is still null.
	// Returns apperrors.ErrConflict if the entry already carries a value.
	FillBalanceAfter(ctx context.Context, entryID string, balanceAfter int64) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
