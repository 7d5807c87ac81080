package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
)

const defaultSyncCallsPerMinute = 60

// syncService mirrors resolved balances to the external identity provider,
// one blocking call per user, paced so the batch never overwhelms the
// provider.
type syncService struct {
	userRepo       portsrepo.UserReader
	balanceSvc     portssvc.BalanceSvcFacade
	identityClient portssvc.IdentityProviderClient
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	userRepo portsrepo.UserReader,
	balanceSvc portssvc.BalanceSvcFacade,
	identityClient portssvc.IdentityProviderClient,
) portssvc.SyncSvcFacade {
	return &syncService{
		userRepo:       userRepo,
		balanceSvc:     balanceSvc,
		identityClient: identityClient,
	}
}

var _ portssvc.SyncSvcFacade = (*syncService)(nil)

// Run syncs the scoped population. One user's failure is recorded and the
// batch continues; a later re-run retries failed users.
func (s *syncService) Run(ctx context.Context, params portssvc.SyncParams) (domain.SyncReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	report := domain.SyncReport{DryRun: params.DryRun}

	callsPerMinute := params.CallsPerMinute
	if callsPerMinute <= 0 {
		callsPerMinute = defaultSyncCallsPerMinute
	}
	pacer := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Minute,
		Limit:  int64(callsPerMinute),
	})

	var userIDs []string
	if params.UserID != "" {
		userIDs = []string{params.UserID}
	} else {
		var err error
		userIDs, err = s.userRepo.ListUserIDs(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to enumerate users for sync: %w", err)
		}
	}
	report.Total = len(userIDs)

	for _, userID := range userIDs {
		if err := s.waitForSlot(ctx, pacer); err != nil {
			return report, err
		}

		summary, err := s.balanceSvc.Resolve(ctx, params.Mode, userID)
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, domain.SyncFailure{
				UserID:   userID,
				Error:    err.Error(),
				FailedAt: time.Now().UTC(),
			})
			continue
		}

		if !params.DryRun {
			if err := s.identityClient.UpdateBalance(ctx, userID, summary.EffectiveBalance); err != nil {
				report.Failed++
				report.Failures = append(report.Failures, domain.SyncFailure{
					UserID:   userID,
					Error:    err.Error(),
					FailedAt: time.Now().UTC(),
				})
				logger.Warn("External balance sync failed for user",
					slog.String("userID", userID),
					slog.String("error", err.Error()),
				)
				continue
			}
		}
		report.Synced++
	}

	logger.Info("External balance sync finished",
		slog.Bool("dryRun", report.DryRun),
		slog.Int("total", report.Total),
		slog.Int("synced", report.Synced),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

// waitForSlot blocks until the pacer grants a slot or the context is done.
func (s *syncService) waitForSlot(ctx context.Context, pacer *limiter.Limiter) error {
	for {
		lctx, err := pacer.Get(ctx, "balance-sync")
		if err != nil {
			return fmt.Errorf("failed to check sync rate limit: %w", err)
		}
		if !lctx.Reached {
			return nil
		}
		wait := time.Until(time.Unix(lctx.Reset, 0))
		if wait < time.Second {
			wait = time.Second
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
