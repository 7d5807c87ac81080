package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
)

// reconciliationService runs the scheduled full scan over ledger truth vs
// the legacy balance. The scan is restartable: each user is reconciled
// independently and a crash mid-scan only delays detection.
type reconciliationService struct {
	txManager        portsrepo.TransactionManager
	ledgerRepo       portsrepo.LedgerRepositoryFacade
	userRepo         portsrepo.UserRepositoryFacade
	publishEventRepo portsrepo.PublishEventReader
	notifier         portssvc.DriftNotifier
	overflowCeiling  int64
}

// NewReconciliationService creates a new ReconciliationService.
// overflowCeiling bounds the magnitudes the scan is willing to heal; values
// beyond it are reported but never written back.
func NewReconciliationService(
	txManager portsrepo.TransactionManager,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	publishEventRepo portsrepo.PublishEventReader,
	notifier portssvc.DriftNotifier,
	overflowCeiling int64,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		txManager:        txManager,
		ledgerRepo:       ledgerRepo,
		userRepo:         userRepo,
		publishEventRepo: publishEventRepo,
		notifier:         notifier,
		overflowCeiling:  overflowCeiling,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

type userReconcileOutcome struct {
	mismatch bool
	adjusted bool
	overflow bool
}

// Run scans every user with at least one ledger entry, then cross-checks
// publish events against their ledger/pending references.
func (s *reconciliationService) Run(ctx context.Context, mode domain.Mode) (domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	report := domain.ReconciliationReport{StartedAt: time.Now().UTC()}

	userIDs, err := s.ledgerRepo.ListUserIDsWithEntries(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to enumerate users with ledger entries: %w", err)
	}
	report.TotalUsers = len(userIDs)

	for _, userID := range userIDs {
		outcome, err := s.reconcileUser(ctx, mode, userID)
		if err != nil {
			// One user's failure never aborts the scan for the rest.
			report.FailedUsers++
			logger.Error("Reconciliation failed for user",
				slog.String("userID", userID),
				slog.String("error", err.Error()),
			)
			continue
		}
		report.EvaluatedUsers++
		if outcome.mismatch {
			report.Mismatches++
		}
		if outcome.adjusted {
			report.Adjustments++
		}
		if outcome.overflow {
			report.Overflows++
		}
	}

	missing, err := s.publishEventRepo.ListDecidedMissingRefs(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to scan publish events for missing references: %w", err)
	}
	report.PublishMissing = missing

	duplicates, err := s.publishEventRepo.ListDuplicateTokenRefs(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to scan for duplicate publish references: %w", err)
	}
	report.PublishDuplicates = duplicates

	report.FinishedAt = time.Now().UTC()
	logger.Info("Reconciliation run finished",
		slog.Int("totalUsers", report.TotalUsers),
		slog.Int("mismatches", report.Mismatches),
		slog.Int("adjustments", report.Adjustments),
		slog.Int("overflows", report.Overflows),
		slog.Int("failedUsers", report.FailedUsers),
	)
	return report, nil
}

// reconcileUser compares one user's ledger sum to the legacy balance and,
// when they disagree, writes the corrective ADJUSTMENT entry under the user
// row lock. In live mode the legacy balance is also overwritten to the
// ledger sum; in shadow mode the entry is observe-only.
func (s *reconciliationService) reconcileUser(ctx context.Context, mode domain.Mode, userID string) (userReconcileOutcome, error) {
	now := time.Now().UTC()

	// Prior reconciliation adjustments are excluded from the drift sum: the
	// heal sets legacy to this sum, so a second immediate run reads zero delta
	// instead of chasing its own adjustment forever.
	ledgerSum, err := s.ledgerRepo.SumAmountsExcludingReason(ctx, userID, domain.ReasonReconciliationMismatch)
	if err != nil {
		return userReconcileOutcome{}, fmt.Errorf("failed to sum ledger for user %s: %w", userID, err)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return userReconcileOutcome{}, fmt.Errorf("failed to begin reconciliation transaction for user %s: %w", userID, err)
	}
	defer func() {
		_ = s.txManager.Rollback(ctx, tx)
	}()

	user, err := s.userRepo.FindUserForUpdateInTx(ctx, tx, userID)
	if err != nil {
		return userReconcileOutcome{}, fmt.Errorf("failed to lock user %s: %w", userID, err)
	}

	delta := ledgerSum - user.RingBalance
	if delta == 0 {
		return userReconcileOutcome{}, nil
	}

	drift := domain.DriftNotification{
		UserID:        userID,
		LedgerSum:     ledgerSum,
		LegacyBalance: user.RingBalance,
		Delta:         delta,
		Mode:          mode,
		DetectedAt:    now,
	}

	if absInt64(ledgerSum) > s.overflowCeiling || absInt64(user.RingBalance) > s.overflowCeiling {
		drift.Overflow = true
		s.notifier.NotifyDrift(ctx, drift)
		return userReconcileOutcome{mismatch: true, overflow: true}, nil
	}

	outcome := userReconcileOutcome{mismatch: true}
	if mode == domain.ModeShadow || mode == domain.ModeLive {
		balanceAfter := ledgerSum
		entry := domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			UserID:       userID,
			Kind:         domain.EntryAdjustment,
			ReasonCode:   domain.ReasonReconciliationMismatch,
			Amount:       delta,
			BalanceAfter: &balanceAfter,
			Metadata: domain.Metadata{
				Extra: map[string]string{
					"legacy_balance": fmt.Sprintf("%d", user.RingBalance),
					"ledger_sum":     fmt.Sprintf("%d", ledgerSum),
				},
			},
			CreatedAt: now,
		}
		if err := s.ledgerRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
			return userReconcileOutcome{}, fmt.Errorf("failed to append adjustment for user %s: %w", userID, err)
		}
		if mode == domain.ModeLive {
			if err := s.userRepo.UpdateBalanceInTx(ctx, tx, userID, ledgerSum, systemActorID, now); err != nil {
				return userReconcileOutcome{}, fmt.Errorf("failed to heal balance for user %s: %w", userID, err)
			}
		}
		if err := s.txManager.Commit(ctx, tx); err != nil {
			return userReconcileOutcome{}, fmt.Errorf("failed to commit adjustment for user %s: %w", userID, err)
		}
		outcome.adjusted = true
	}

	s.notifier.NotifyDrift(ctx, drift)
	return outcome, nil
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
