package services

// ServiceContainer holds all service facades for handler and job wiring.
type ServiceContainer struct {
	Guardrail      GuardrailSvcFacade
	Issuance       IssuanceSvcFacade
	PublishEvent   PublishEventSvcFacade
	Balance        BalanceSvcFacade
	Reconciliation ReconciliationSvcFacade
	Backfill       BackfillSvcFacade
	Sync           SyncSvcFacade
	User           UserSvcFacade
	Receipt        ReceiptSvcFacade
}
