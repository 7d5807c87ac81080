package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
)

const (
	defaultLedgerPageSize = 50
	maxLedgerPageSize     = 100
	defaultEventPageSize  = 20
)

// nonEarnKinds are the ledger kinds that count toward the shadow-mode
// effective balance. Earns live in pending during shadow mode, so EARN
// entries are excluded by construction; if an EARN row ever appears while in
// shadow mode it simply stays invisible here until the mode goes live.
var nonEarnKinds = []domain.EntryKind{domain.EntrySpend, domain.EntryPenalty, domain.EntryAdjustment}

// balanceService computes the number shown to a user. Strictly read-only.
type balanceService struct {
	userRepo         portsrepo.UserReader
	ledgerRepo       portsrepo.LedgerRepositoryFacade
	pendingRepo      portsrepo.PendingRewardRepositoryFacade
	publishEventRepo portsrepo.PublishEventReader
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(
	userRepo portsrepo.UserReader,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	pendingRepo portsrepo.PendingRewardRepositoryFacade,
	publishEventRepo portsrepo.PublishEventReader,
) portssvc.BalanceSvcFacade {
	return &balanceService{
		userRepo:         userRepo,
		ledgerRepo:       ledgerRepo,
		pendingRepo:      pendingRepo,
		publishEventRepo: publishEventRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// Resolve blends the legacy balance, queued pending totals, and ledger
// deltas according to the mode.
func (s *balanceService) Resolve(ctx context.Context, mode domain.Mode, userID string) (domain.BalanceSummary, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return domain.BalanceSummary{}, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	summary := domain.BalanceSummary{
		UserID:  userID,
		Mode:    mode,
		Balance: user.RingBalance,
	}

	latest, err := s.ledgerRepo.FindLatestEntry(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return domain.BalanceSummary{}, fmt.Errorf("failed to load latest ledger entry for user %s: %w", userID, err)
	}
	if latest != nil {
		summary.LastLedgerAt = &latest.CreatedAt
	}

	latestPending, err := s.pendingRepo.FindLatestByUser(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return domain.BalanceSummary{}, fmt.Errorf("failed to load latest pending reward for user %s: %w", userID, err)
	}
	if latestPending != nil {
		summary.LastPendingAt = &latestPending.CreatedAt
	}

	switch mode {
	case domain.ModeShadow:
		pendingTotal, _, err := s.pendingRepo.SumQueuedByUser(ctx, userID)
		if err != nil {
			return domain.BalanceSummary{}, fmt.Errorf("failed to sum pending rewards for user %s: %w", userID, err)
		}
		ledgerDelta, err := s.ledgerRepo.SumAmountsByKinds(ctx, userID, nonEarnKinds)
		if err != nil {
			return domain.BalanceSummary{}, fmt.Errorf("failed to sum ledger deltas for user %s: %w", userID, err)
		}
		summary.PendingTotal = pendingTotal
		summary.EffectiveBalance = user.RingBalance + pendingTotal + ledgerDelta
	case domain.ModeLive:
		// Ledger truth, falling back to the legacy balance for users whose
		// entries have not been backfilled yet.
		if latest != nil && latest.BalanceAfter != nil {
			summary.EffectiveBalance = *latest.BalanceAfter
		} else {
			summary.EffectiveBalance = user.RingBalance
		}
	default:
		summary.EffectiveBalance = user.RingBalance
	}
	return summary, nil
}

// PendingSummary aggregates a user's queued pending rewards.
func (s *balanceService) PendingSummary(ctx context.Context, userID string) (domain.PendingSummary, error) {
	total, count, err := s.pendingRepo.SumQueuedByUser(ctx, userID)
	if err != nil {
		return domain.PendingSummary{}, fmt.Errorf("failed to summarize pending rewards for user %s: %w", userID, err)
	}
	return domain.PendingSummary{
		UserID:      userID,
		TotalAmount: total,
		Count:       count,
	}, nil
}

// LedgerEntries lists a user's ledger entries, most recent first.
func (s *balanceService) LedgerEntries(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = defaultLedgerPageSize
	}
	if limit > maxLedgerPageSize {
		limit = maxLedgerPageSize
	}
	entries, token, err := s.ledgerRepo.ListEntriesByUser(ctx, userID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ledger entries for user %s: %w", userID, err)
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return entries, token, nil
}

// RecentPublishEvents lists a user's most recent publish events.
func (s *balanceService) RecentPublishEvents(ctx context.Context, userID string, limit int) ([]domain.PublishEvent, error) {
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	events, err := s.publishEventRepo.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list publish events for user %s: %w", userID, err)
	}
	if events == nil {
		events = []domain.PublishEvent{}
	}
	return events, nil
}

// ExpirePending transitions a queued pending reward to expired.
func (s *balanceService) ExpirePending(ctx context.Context, pendingID string) error {
	if err := s.pendingRepo.TransitionStatus(ctx, pendingID, domain.PendingQueued, domain.PendingExpired); err != nil {
		return fmt.Errorf("failed to expire pending reward %s: %w", pendingID, err)
	}
	return nil
}
