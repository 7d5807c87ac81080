package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/core/services"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockUserRepo         *MockUserRepository
	mockLedgerRepo       *MockLedgerRepository
	mockPendingRepo      *MockPendingRewardRepository
	mockPublishEventRepo *MockPublishEventRepository
	service              portssvc.BalanceSvcFacade
	userID               string
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockPendingRepo = new(MockPendingRewardRepository)
	suite.mockPublishEventRepo = new(MockPublishEventRepository)
	suite.service = services.NewBalanceService(
		suite.mockUserRepo,
		suite.mockLedgerRepo,
		suite.mockPendingRepo,
		suite.mockPublishEventRepo,
	)
	suite.userID = uuid.NewString()
}

func (suite *BalanceServiceTestSuite) expectNoRecentActivity(ctx context.Context) {
	suite.mockLedgerRepo.On("FindLatestEntry", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPendingRepo.On("FindLatestByUser", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
}

func (suite *BalanceServiceTestSuite) TestResolve_OffModeReturnsLegacyBalance() {
	ctx := context.Background()
	user := &domain.User{UserID: suite.userID, RingBalance: 42}
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(user, nil).Once()
	suite.expectNoRecentActivity(ctx)

	summary, err := suite.service.Resolve(ctx, domain.ModeOff, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int64(42), summary.Balance)
	suite.Equal(int64(42), summary.EffectiveBalance)
	suite.Nil(summary.LastLedgerAt)
	suite.mockPendingRepo.AssertNotCalled(suite.T(), "SumQueuedByUser", mock.Anything, mock.Anything)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SumAmountsByKinds", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestResolve_ShadowModeBlendsPendingAndDeductions() {
	ctx := context.Background()
	user := &domain.User{UserID: suite.userID, RingBalance: 40}
	pendingAt := time.Now().UTC().Add(-time.Hour)
	latestPending := &domain.PendingReward{PendingID: uuid.NewString(), UserID: suite.userID, CreatedAt: pendingAt}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(user, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntry", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPendingRepo.On("FindLatestByUser", ctx, suite.userID).Return(latestPending, nil).Once()
	suite.mockPendingRepo.On("SumQueuedByUser", ctx, suite.userID).Return(int64(15), 2, nil).Once()
	suite.mockLedgerRepo.On("SumAmountsByKinds", ctx, suite.userID, mock.MatchedBy(func(kinds []domain.EntryKind) bool {
		return len(kinds) == 3 &&
			kinds[0] == domain.EntrySpend &&
			kinds[1] == domain.EntryPenalty &&
			kinds[2] == domain.EntryAdjustment
	})).Return(int64(-5), nil).Once()

	summary, err := suite.service.Resolve(ctx, domain.ModeShadow, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int64(40), summary.Balance)
	suite.Equal(int64(15), summary.PendingTotal)
	suite.Equal(int64(50), summary.EffectiveBalance)
	suite.Require().NotNil(summary.LastPendingAt)
	suite.True(summary.LastPendingAt.Equal(pendingAt))
}

func (suite *BalanceServiceTestSuite) TestResolve_LiveModeUsesLatestRunningTotal() {
	ctx := context.Background()
	user := &domain.User{UserID: suite.userID, RingBalance: 40}
	ledgerAt := time.Now().UTC().Add(-time.Minute)
	balanceAfter := int64(27)
	latest := &domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		UserID:       suite.userID,
		Kind:         domain.EntryEarn,
		Amount:       10,
		BalanceAfter: &balanceAfter,
		CreatedAt:    ledgerAt,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(user, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntry", ctx, suite.userID).Return(latest, nil).Once()
	suite.mockPendingRepo.On("FindLatestByUser", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()

	summary, err := suite.service.Resolve(ctx, domain.ModeLive, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int64(27), summary.EffectiveBalance)
	suite.Require().NotNil(summary.LastLedgerAt)
	suite.True(summary.LastLedgerAt.Equal(ledgerAt))
	suite.mockPendingRepo.AssertNotCalled(suite.T(), "SumQueuedByUser", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestResolve_LiveModeFallsBackToLegacyWithoutEntries() {
	ctx := context.Background()
	user := &domain.User{UserID: suite.userID, RingBalance: 33}
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(user, nil).Once()
	suite.expectNoRecentActivity(ctx)

	summary, err := suite.service.Resolve(ctx, domain.ModeLive, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int64(33), summary.EffectiveBalance)
}

func (suite *BalanceServiceTestSuite) TestResolve_UnknownUser() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Resolve(ctx, domain.ModeLive, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BalanceServiceTestSuite) TestPendingSummary() {
	ctx := context.Background()
	suite.mockPendingRepo.On("SumQueuedByUser", ctx, suite.userID).Return(int64(25), 3, nil).Once()

	summary, err := suite.service.PendingSummary(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int64(25), summary.TotalAmount)
	suite.Equal(3, summary.Count)
}

func (suite *BalanceServiceTestSuite) TestLedgerEntries_DefaultsAndClampsLimit() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("ListEntriesByUser", ctx, suite.userID, 50, (*string)(nil)).Return([]domain.LedgerEntry{}, nil, nil).Once()
	suite.mockLedgerRepo.On("ListEntriesByUser", ctx, suite.userID, 100, (*string)(nil)).Return([]domain.LedgerEntry{}, nil, nil).Once()

	_, _, err := suite.service.LedgerEntries(ctx, suite.userID, 0, nil)
	suite.Require().NoError(err)
	_, _, err = suite.service.LedgerEntries(ctx, suite.userID, 500, nil)
	suite.Require().NoError(err)

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestLedgerEntries_NilPageBecomesEmptySlice() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("ListEntriesByUser", ctx, suite.userID, 20, (*string)(nil)).Return(nil, nil, nil).Once()

	entries, token, err := suite.service.LedgerEntries(ctx, suite.userID, 20, nil)

	suite.Require().NoError(err)
	suite.NotNil(entries)
	suite.Empty(entries)
	suite.Nil(token)
}

func (suite *BalanceServiceTestSuite) TestExpirePending() {
	ctx := context.Background()
	pendingID := uuid.NewString()
	suite.mockPendingRepo.On("TransitionStatus", ctx, pendingID, domain.PendingQueued, domain.PendingExpired).Return(nil).Once()

	err := suite.service.ExpirePending(ctx, pendingID)

	suite.Require().NoError(err)
	suite.mockPendingRepo.AssertExpectations(suite.T())
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
