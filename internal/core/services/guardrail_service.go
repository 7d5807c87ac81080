package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
)

// GuardrailRules holds the tunable thresholds for the anti-gaming rules.
type GuardrailRules struct {
	DailyEarnCap            int64
	MinEarnInterval         time.Duration
	AnomalyThresholdPerHour int
}

// guardrailService evaluates and maintains per-user rolling counters.
type guardrailService struct {
	guardrailRepo portsrepo.GuardrailRepositoryFacade
	rules         GuardrailRules
}

// NewGuardrailService creates a new GuardrailService.
func NewGuardrailService(guardrailRepo portsrepo.GuardrailRepositoryFacade, rules GuardrailRules) portssvc.GuardrailSvcFacade {
	return &guardrailService{
		guardrailRepo: guardrailRepo,
		rules:         rules,
	}
}

var _ portssvc.GuardrailSvcFacade = (*guardrailService)(nil)

// Evaluate runs every rule against the user's current counters. Rules that
// trigger together combine by taking the maximum reduction, not by stacking.
func (s *guardrailService) Evaluate(ctx context.Context, userID string, now time.Time) (domain.GuardrailVerdict, error) {
	state, err := s.guardrailRepo.FindState(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// First observation of this user: zero counters, nothing triggers.
			return domain.GuardrailVerdict{Allowed: true}, nil
		}
		return domain.GuardrailVerdict{}, fmt.Errorf("failed to load guardrail state for user %s: %w", userID, err)
	}

	// Evaluate against the post-reset view without persisting the reset; the
	// write happens under the row lock in RecordEarn.
	current := *state
	current.ResetIfExpired(now)

	verdict := domain.GuardrailVerdict{Allowed: true}
	if current.DailyEarnTotal >= s.rules.DailyEarnCap {
		verdict.Violations = append(verdict.Violations, domain.ViolationDailyCap)
		verdict.ReductionPercent = maxInt(verdict.ReductionPercent, 100)
	}
	if current.LastEarnAt != nil && now.Sub(*current.LastEarnAt) < s.rules.MinEarnInterval {
		verdict.Violations = append(verdict.Violations, domain.ViolationMinInterval)
		verdict.ReductionPercent = maxInt(verdict.ReductionPercent, 50)
	}
	if current.DailyEarnCount > s.rules.AnomalyThresholdPerHour {
		verdict.Violations = append(verdict.Violations, domain.ViolationAnomaly)
		verdict.ReductionPercent = maxInt(verdict.ReductionPercent, 75)
	}
	verdict.Allowed = verdict.ReductionPercent < 100
	return verdict, nil
}

// RecordEarn increments the user's counters within the caller's transaction.
// The row lock taken here serializes concurrent earns from the same user so
// the cap check cannot pass twice on stale counters.
func (s *guardrailService) RecordEarn(ctx context.Context, tx pgx.Tx, userID string, amount int64, now time.Time) error {
	state, err := s.guardrailRepo.FindStateForUpdateInTx(ctx, tx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to lock guardrail state for user %s: %w", userID, err)
		}
		fresh := domain.GuardrailState{
			UserID:         userID,
			DailyEarnCount: 1,
			DailyEarnTotal: amount,
			LastEarnAt:     &now,
			WindowResetAt:  now,
			Version:        1,
		}
		insErr := s.guardrailRepo.InsertStateInTx(ctx, tx, fresh)
		if insErr == nil {
			return nil
		}
		if !errors.Is(insErr, apperrors.ErrDuplicate) {
			return fmt.Errorf("failed to create guardrail state for user %s: %w", userID, insErr)
		}
		// Another request created the row between our read and insert.
		// Re-read under the lock and fall through to the normal update.
		state, err = s.guardrailRepo.FindStateForUpdateInTx(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("failed to re-read guardrail state for user %s: %w", userID, err)
		}
	}

	if err := s.applyEarn(ctx, tx, *state, amount, now); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		// A version conflict means another request already recorded this
		// user's earn. Re-read the now-current state and apply once more
		// rather than retrying blindly.
		middleware.GetLoggerFromCtx(ctx).Warn("Guardrail state version conflict, re-reading", "userID", userID)
		current, rerr := s.guardrailRepo.FindStateForUpdateInTx(ctx, tx, userID)
		if rerr != nil {
			return fmt.Errorf("failed to re-read guardrail state for user %s after conflict: %w", userID, rerr)
		}
		return s.applyEarn(ctx, tx, *current, amount, now)
	}
	return nil
}

func (s *guardrailService) applyEarn(ctx context.Context, tx pgx.Tx, state domain.GuardrailState, amount int64, now time.Time) error {
	state.ResetIfExpired(now)
	state.DailyEarnCount++
	state.DailyEarnTotal += amount
	state.LastEarnAt = &now
	if err := s.guardrailRepo.UpdateStateInTx(ctx, tx, state); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to update guardrail state for user %s: %w", state.UserID, err)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
