package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
)

// systemActorID marks balance mutations made by the engine itself rather
// than an end user.
const systemActorID = "ring-engine"

// issuanceService decides whether and how much RING to grant for one publish
// event, and records the grant in the store matching the mode.
type issuanceService struct {
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	pendingRepo  portsrepo.PendingRewardRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
	guardrailSvc portssvc.GuardrailSvcFacade
	baseAward    int64
}

// NewIssuanceService creates a new IssuanceService. baseAward is the fixed
// per-publish grant before guardrail reduction.
func NewIssuanceService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	pendingRepo portsrepo.PendingRewardRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	guardrailSvc portssvc.GuardrailSvcFacade,
	baseAward int64,
) portssvc.IssuanceSvcFacade {
	return &issuanceService{
		ledgerRepo:   ledgerRepo,
		pendingRepo:  pendingRepo,
		userRepo:     userRepo,
		guardrailSvc: guardrailSvc,
		baseAward:    baseAward,
	}
}

var _ portssvc.IssuanceSvcFacade = (*issuanceService)(nil)

// IssueInTx walks the decision table in order, first match wins. It runs
// inside the caller's transaction so the ledger/pending row, the legacy
// balance, and the guardrail counters commit as one unit.
func (s *issuanceService) IssueInTx(ctx context.Context, tx pgx.Tx, cmd portssvc.IssueCommand) (domain.TokenResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if cmd.Mode == domain.ModeOff {
		return s.rejected(cmd, domain.ReasonTokenIssuanceOff, nil), nil
	}
	if cmd.QAStatus != domain.QAPass {
		return s.rejected(cmd, domain.ReasonQANotPass, nil), nil
	}
	if !cmd.AuditOK {
		return s.rejected(cmd, domain.ReasonAuditNotOK, nil), nil
	}

	verdict, err := s.guardrailSvc.Evaluate(ctx, cmd.UserID, cmd.Now)
	if err != nil {
		return domain.TokenResult{}, err
	}
	finalAmount := verdict.ApplyReduction(s.baseAward)
	if !verdict.Allowed || finalAmount <= 0 {
		logger.Info("Issuance blocked by guardrails",
			slog.String("userID", cmd.UserID),
			slog.Any("violations", verdict.Violations),
		)
		return s.rejected(cmd, domain.ReasonGuardrailBlocked, verdict.Violations), nil
	}

	metadata := domain.Metadata{
		PublishEventID: cmd.PublishEventID,
		Extra:          map[string]string{"platform": cmd.Platform},
	}

	if cmd.Mode == domain.ModeShadow {
		pending := domain.PendingReward{
			PendingID:  uuid.NewString(),
			UserID:     cmd.UserID,
			Amount:     finalAmount,
			ReasonCode: domain.ReasonPublishReward,
			Status:     domain.PendingQueued,
			Metadata:   metadata,
			CreatedAt:  cmd.Now,
			UpdatedAt:  cmd.Now,
		}
		if err := s.pendingRepo.SavePendingInTx(ctx, tx, pending); err != nil {
			return domain.TokenResult{}, fmt.Errorf("failed to save pending reward for event %s: %w", cmd.PublishEventID, err)
		}
		if err := s.guardrailSvc.RecordEarn(ctx, tx, cmd.UserID, finalAmount, cmd.Now); err != nil {
			return domain.TokenResult{}, err
		}
		result := s.rejected(cmd, domain.ReasonPending, verdict.Violations)
		result.PendingAmount = finalAmount
		result.PendingRewardID = &pending.PendingID
		return result, nil
	}

	// Live: ledger entry, legacy balance, and guardrail counters move
	// together under the user row lock.
	user, err := s.userRepo.FindUserForUpdateInTx(ctx, tx, cmd.UserID)
	if err != nil {
		return domain.TokenResult{}, fmt.Errorf("failed to lock user %s for issuance: %w", cmd.UserID, err)
	}
	newBalance := user.RingBalance + finalAmount
	entry := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		UserID:       cmd.UserID,
		Kind:         domain.EntryEarn,
		ReasonCode:   domain.ReasonPublishReward,
		Amount:       finalAmount,
		BalanceAfter: &newBalance,
		Metadata:     metadata,
		CreatedAt:    cmd.Now,
	}
	if err := s.ledgerRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return domain.TokenResult{}, fmt.Errorf("failed to append ledger entry for event %s: %w", cmd.PublishEventID, err)
	}
	if err := s.userRepo.UpdateBalanceInTx(ctx, tx, cmd.UserID, newBalance, systemActorID, cmd.Now); err != nil {
		return domain.TokenResult{}, fmt.Errorf("failed to update balance for user %s: %w", cmd.UserID, err)
	}
	if err := s.guardrailSvc.RecordEarn(ctx, tx, cmd.UserID, finalAmount, cmd.Now); err != nil {
		return domain.TokenResult{}, err
	}

	logger.Info("RING issued",
		slog.String("userID", cmd.UserID),
		slog.String("publishEventID", cmd.PublishEventID),
		slog.Int64("amount", finalAmount),
		slog.Int64("newBalance", newBalance),
	)
	return domain.TokenResult{
		Mode:          cmd.Mode,
		Issued:        true,
		IssuedAmount:  finalAmount,
		ReasonCode:    domain.ReasonIssued,
		LedgerEntryID: &entry.EntryID,
		Violations:    verdict.Violations,
		DecidedAt:     cmd.Now,
	}, nil
}

func (s *issuanceService) rejected(cmd portssvc.IssueCommand, reason domain.ReasonCode, violations []string) domain.TokenResult {
	return domain.TokenResult{
		Mode:       cmd.Mode,
		ReasonCode: reason,
		Violations: violations,
		DecidedAt:  cmd.Now,
	}
}
