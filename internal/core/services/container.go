package services

import (
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	notifier portssvc.DriftNotifier,
	identityClient portssvc.IdentityProviderClient,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Guardrails first since issuance depends on them
	container.Guardrail = NewGuardrailService(repos.GuardrailRepo, GuardrailRules{
		DailyEarnCap:            cfg.DailyEarnCap,
		MinEarnInterval:         cfg.MinEarnInterval,
		AnomalyThresholdPerHour: cfg.AnomalyThresholdPerHour,
	})
	container.Issuance = NewIssuanceService(
		repos.LedgerRepo,
		repos.PendingRepo,
		repos.UserRepo,
		container.Guardrail,
		cfg.BaseAwardAmount,
	)
	container.PublishEvent = NewPublishEventService(
		repos.PublishEventRepo,
		repos.ReceiptRepo,
		container.Issuance,
	)
	container.Balance = NewBalanceService(
		repos.UserRepo,
		repos.LedgerRepo,
		repos.PendingRepo,
		repos.PublishEventRepo,
	)
	container.Reconciliation = NewReconciliationService(
		repos.PublishEventRepo,
		repos.LedgerRepo,
		repos.UserRepo,
		repos.PublishEventRepo,
		notifier,
		cfg.OverflowCeiling,
	)
	container.Backfill = NewBackfillService(repos.LedgerRepo, repos.PublishEventRepo)
	container.Sync = NewSyncService(repos.UserRepo, container.Balance, identityClient)
	container.User = NewUserService(repos.UserRepo)
	container.Receipt = NewReceiptService(repos.ReceiptRepo)

	return container
}
