package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
)

// fakeTx satisfies pgx.Tx for passing through service calls; the embedded
// interface is never invoked because repositories are mocked.
type fakeTx struct {
	pgx.Tx
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) ListEntriesByUserAsc(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindLatestEntry(ctx context.Context, userID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumAmountsExcludingReason(ctx context.Context, userID string, reasonCode string) (int64, error) {
	args := m.Called(ctx, userID, reasonCode)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) SumAmountsByKinds(ctx context.Context, userID string, kinds []domain.EntryKind) (int64, error) {
	args := m.Called(ctx, userID, kinds)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ListUserIDsWithEntries(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLedgerRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FillBalanceAfter(ctx context.Context, entryID string, balanceAfter int64) error {
	args := m.Called(ctx, entryID, balanceAfter)
	return args.Error(0)
}

// --- Mock PendingRewardRepository ---

type MockPendingRewardRepository struct {
	mock.Mock
}

var _ portsrepo.PendingRewardRepositoryFacade = (*MockPendingRewardRepository)(nil)

func (m *MockPendingRewardRepository) SumQueuedByUser(ctx context.Context, userID string) (int64, int, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Int(1), args.Error(2)
}

func (m *MockPendingRewardRepository) FindLatestByUser(ctx context.Context, userID string) (*domain.PendingReward, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingReward), args.Error(1)
}

func (m *MockPendingRewardRepository) SavePendingInTx(ctx context.Context, tx pgx.Tx, pending domain.PendingReward) error {
	args := m.Called(ctx, tx, pending)
	return args.Error(0)
}

func (m *MockPendingRewardRepository) TransitionStatus(ctx context.Context, pendingID string, from, to domain.PendingStatus) error {
	args := m.Called(ctx, pendingID, from, to)
	return args.Error(0)
}

// --- Mock GuardrailRepository ---

type MockGuardrailRepository struct {
	mock.Mock
}

var _ portsrepo.GuardrailRepositoryFacade = (*MockGuardrailRepository)(nil)

func (m *MockGuardrailRepository) FindState(ctx context.Context, userID string) (*domain.GuardrailState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuardrailState), args.Error(1)
}

func (m *MockGuardrailRepository) FindStateForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.GuardrailState, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuardrailState), args.Error(1)
}

func (m *MockGuardrailRepository) InsertStateInTx(ctx context.Context, tx pgx.Tx, state domain.GuardrailState) error {
	args := m.Called(ctx, tx, state)
	return args.Error(0)
}

func (m *MockGuardrailRepository) UpdateStateInTx(ctx context.Context, tx pgx.Tx, state domain.GuardrailState) error {
	args := m.Called(ctx, tx, state)
	return args.Error(0)
}

// --- Mock PublishEventRepository (with tx manager) ---

type MockPublishEventRepository struct {
	mock.Mock
}

var _ portsrepo.PublishEventRepositoryWithTx = (*MockPublishEventRepository)(nil)

func (m *MockPublishEventRepository) FindEventByID(ctx context.Context, eventID string) (*domain.PublishEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishEvent), args.Error(1)
}

func (m *MockPublishEventRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.PublishEvent, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PublishEvent), args.Error(1)
}

func (m *MockPublishEventRepository) ListDecidedMissingRefs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPublishEventRepository) ListDuplicateTokenRefs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPublishEventRepository) InsertEventInTx(ctx context.Context, tx pgx.Tx, event domain.PublishEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *MockPublishEventRepository) UpdateResultInTx(ctx context.Context, tx pgx.Tx, eventID string, result domain.TokenResult) error {
	args := m.Called(ctx, tx, eventID, result)
	return args.Error(0)
}

func (m *MockPublishEventRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockPublishEventRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPublishEventRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, newBalance int64, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, userID, newBalance, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock ReceiptRepository ---

type MockReceiptRepository struct {
	mock.Mock
}

var _ portsrepo.ReceiptRepositoryFacade = (*MockReceiptRepository)(nil)

func (m *MockReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.EnforcementReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.EnforcementReceipt, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnforcementReceipt), args.Error(1)
}

// --- Mock GuardrailService ---

type MockGuardrailService struct {
	mock.Mock
}

var _ portssvc.GuardrailSvcFacade = (*MockGuardrailService)(nil)

func (m *MockGuardrailService) Evaluate(ctx context.Context, userID string, now time.Time) (domain.GuardrailVerdict, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(domain.GuardrailVerdict), args.Error(1)
}

func (m *MockGuardrailService) RecordEarn(ctx context.Context, tx pgx.Tx, userID string, amount int64, now time.Time) error {
	args := m.Called(ctx, tx, userID, amount, now)
	return args.Error(0)
}

// --- Mock IssuanceService ---

type MockIssuanceService struct {
	mock.Mock
}

var _ portssvc.IssuanceSvcFacade = (*MockIssuanceService)(nil)

func (m *MockIssuanceService) IssueInTx(ctx context.Context, tx pgx.Tx, cmd portssvc.IssueCommand) (domain.TokenResult, error) {
	args := m.Called(ctx, tx, cmd)
	return args.Get(0).(domain.TokenResult), args.Error(1)
}

// --- Mock BalanceService ---

type MockBalanceService struct {
	mock.Mock
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

func (m *MockBalanceService) Resolve(ctx context.Context, mode domain.Mode, userID string) (domain.BalanceSummary, error) {
	args := m.Called(ctx, mode, userID)
	return args.Get(0).(domain.BalanceSummary), args.Error(1)
}

func (m *MockBalanceService) PendingSummary(ctx context.Context, userID string) (domain.PendingSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.PendingSummary), args.Error(1)
}

func (m *MockBalanceService) LedgerEntries(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

func (m *MockBalanceService) RecentPublishEvents(ctx context.Context, userID string, limit int) ([]domain.PublishEvent, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PublishEvent), args.Error(1)
}

func (m *MockBalanceService) ExpirePending(ctx context.Context, pendingID string) error {
	args := m.Called(ctx, pendingID)
	return args.Error(0)
}

// --- Mock DriftNotifier ---

type MockDriftNotifier struct {
	mock.Mock
}

var _ portssvc.DriftNotifier = (*MockDriftNotifier)(nil)

func (m *MockDriftNotifier) NotifyDrift(ctx context.Context, drift domain.DriftNotification) {
	m.Called(ctx, drift)
}

// --- Mock IdentityProviderClient ---

type MockIdentityProviderClient struct {
	mock.Mock
}

var _ portssvc.IdentityProviderClient = (*MockIdentityProviderClient)(nil)

func (m *MockIdentityProviderClient) UpdateBalance(ctx context.Context, userID string, balance int64) error {
	args := m.Called(ctx, userID, balance)
	return args.Error(0)
}
