package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
)

// backfillService recomputes missing running totals over the ledger. It is
// an offline tool: errors fail the run loudly instead of being skipped.
type backfillService struct {
	ledgerRepo       portsrepo.LedgerRepositoryFacade
	publishEventRepo portsrepo.PublishEventReader
}

// NewBackfillService creates a new BackfillService.
func NewBackfillService(ledgerRepo portsrepo.LedgerRepositoryFacade, publishEventRepo portsrepo.PublishEventReader) portssvc.BackfillSvcFacade {
	return &backfillService{
		ledgerRepo:       ledgerRepo,
		publishEventRepo: publishEventRepo,
	}
}

var _ portssvc.BackfillSvcFacade = (*backfillService)(nil)

// Run walks each user's entries in creation order, maintaining a running
// total seeded at startingBalance. Null balance_after values are computed
// and, outside dry-run, written. A stored value that disagrees with the
// computed one is counted and adopted as the new running total; overwriting
// disagreeing historical data requires a human decision.
func (s *backfillService) Run(ctx context.Context, startingBalance int64, dryRun bool) (domain.BackfillReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	report := domain.BackfillReport{
		DryRun:          dryRun,
		StartingBalance: startingBalance,
	}

	userIDs, err := s.ledgerRepo.ListUserIDsWithEntries(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to enumerate users with ledger entries: %w", err)
	}
	report.Users = len(userIDs)

	for _, userID := range userIDs {
		entries, err := s.ledgerRepo.ListEntriesByUserAsc(ctx, userID)
		if err != nil {
			return report, fmt.Errorf("failed to list ledger entries for user %s: %w", userID, err)
		}

		running := startingBalance
		for _, entry := range entries {
			report.Rows++
			expected := running + entry.Amount

			switch {
			case entry.BalanceAfter == nil:
				if !dryRun {
					if err := s.ledgerRepo.FillBalanceAfter(ctx, entry.EntryID, expected); err != nil {
						return report, fmt.Errorf("failed to fill balance_after on entry %s: %w", entry.EntryID, err)
					}
				}
				report.Updated++
				running = expected
			case *entry.BalanceAfter != expected:
				report.MismatchedRows++
				running = *entry.BalanceAfter
			default:
				running = expected
			}

			if running < 0 {
				report.NegativeBalances++
			}
		}
	}

	missing, err := s.publishEventRepo.ListDecidedMissingRefs(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to scan publish events for missing references: %w", err)
	}
	report.PublishEventsMissingLedger = len(missing)

	logger.Info("Backfill run finished",
		slog.Bool("dryRun", report.DryRun),
		slog.Int("rows", report.Rows),
		slog.Int("updated", report.Updated),
		slog.Int("mismatchedRows", report.MismatchedRows),
		slog.Int("negativeBalances", report.NegativeBalances),
	)
	return report, nil
}
