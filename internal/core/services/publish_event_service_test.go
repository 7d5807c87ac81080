package services_test

import (
	"context"
	"errors"
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

type PublishEventServiceTestSuite struct {
	suite.Suite
	mockPublishEventRepo *MockPublishEventRepository
	mockReceiptRepo      *MockReceiptRepository
	mockIssuanceSvc      *MockIssuanceService
	service              portssvc.PublishEventSvcFacade
	userID               string
}

func (suite *PublishEventServiceTestSuite) SetupTest() {
	suite.mockPublishEventRepo = new(MockPublishEventRepository)
	suite.mockReceiptRepo = new(MockReceiptRepository)
	suite.mockIssuanceSvc = new(MockIssuanceService)
	suite.service = services.NewPublishEventService(
		suite.mockPublishEventRepo,
		suite.mockReceiptRepo,
		suite.mockIssuanceSvc,
	)
	suite.userID = uuid.NewString()
}

func (suite *PublishEventServiceTestSuite) confirmation() portssvc.PublishConfirmation {
	return portssvc.PublishConfirmation{
		EventID:        "evt-" + uuid.NewString(),
		UserID:         suite.userID,
		Platform:       "instagram",
		ContentHash:    "sha256:abc",
		PlatformPostID: "post-123",
		PublishedAt:    time.Now().UTC().Add(-time.Minute),
		ReceiptID:      "rcpt-1",
		AuditOK:        true,
	}
}

func (suite *PublishEventServiceTestSuite) validReceipt() *domain.EnforcementReceipt {
	return &domain.EnforcementReceipt{
		ReceiptID: "rcpt-1",
		QAStatus:  domain.QAPass,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}
}

func (suite *PublishEventServiceTestSuite) TestHandle_MissingEventIDRejected() {
	ctx := context.Background()
	req := suite.confirmation()
	req.EventID = ""

	_, err := suite.service.Handle(ctx, domain.ModeLive, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPublishEventRepo.AssertNotCalled(suite.T(), "FindEventByID", mock.Anything, mock.Anything)
}

func (suite *PublishEventServiceTestSuite) TestHandle_UnknownModeRejected() {
	ctx := context.Background()
	req := suite.confirmation()

	_, err := suite.service.Handle(ctx, domain.Mode("canary"), req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PublishEventServiceTestSuite) TestHandle_ReplayReturnsStoredResult() {
	ctx := context.Background()
	req := suite.confirmation()
	entryID := uuid.NewString()
	stored := &domain.PublishEvent{
		EventID: req.EventID,
		UserID:  suite.userID,
		Result: &domain.TokenResult{
			Mode:          domain.ModeLive,
			Issued:        true,
			IssuedAmount:  10,
			ReasonCode:    domain.ReasonIssued,
			LedgerEntryID: &entryID,
			DecidedAt:     time.Now().UTC().Add(-time.Hour),
		},
	}
	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(stored, nil).Once()

	result, err := suite.service.Handle(ctx, domain.ModeLive, req)

	suite.Require().NoError(err)
	suite.Equal(domain.ReasonIdempotentReplay, result.ReasonCode)
	suite.True(result.Issued)
	suite.Equal(int64(10), result.IssuedAmount)
	suite.Require().NotNil(result.LedgerEntryID)
	suite.Equal(entryID, *result.LedgerEntryID)
	suite.mockPublishEventRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockIssuanceSvc.AssertNotCalled(suite.T(), "IssueInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PublishEventServiceTestSuite) TestHandle_ModeOffRecordsEventAndShortCircuits() {
	ctx := context.Background()
	tx := fakeTx{}
	req := suite.confirmation()

	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, req.ReceiptID).Return(suite.validReceipt(), nil).Once()
	suite.mockPublishEventRepo.On("Begin", ctx).Return(tx, nil).Once()
	suite.mockPublishEventRepo.On("InsertEventInTx", ctx, tx, mock.MatchedBy(func(event domain.PublishEvent) bool {
		return event.EventID == req.EventID && event.QAStatus == domain.QAPass
	})).Return(nil).Once()
	suite.mockPublishEventRepo.On("UpdateResultInTx", ctx, tx, req.EventID, mock.MatchedBy(func(result domain.TokenResult) bool {
		return result.ReasonCode == domain.ReasonTokenIssuanceOff && !result.Issued
	})).Return(nil).Once()
	suite.mockPublishEventRepo.On("Commit", ctx, tx).Return(nil).Once()
	suite.mockPublishEventRepo.On("Rollback", ctx, tx).Return(errors.New("tx is closed"))

	result, err := suite.service.Handle(ctx, domain.ModeOff, req)

	suite.Require().NoError(err)
	suite.Equal(domain.ReasonTokenIssuanceOff, result.ReasonCode)
	suite.mockIssuanceSvc.AssertNotCalled(suite.T(), "IssueInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockPublishEventRepo.AssertExpectations(suite.T())
}

func (suite *PublishEventServiceTestSuite) TestHandle_PlatformConfirmationMissing() {
	ctx := context.Background()
	tx := fakeTx{}
	req := suite.confirmation()
	req.PlatformPostID = ""

	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, req.ReceiptID).Return(suite.validReceipt(), nil).Once()
	suite.mockPublishEventRepo.On("Begin", ctx).Return(tx, nil).Once()
	suite.mockPublishEventRepo.On("InsertEventInTx", ctx, tx, mock.Anything).Return(nil).Once()
	suite.mockPublishEventRepo.On("UpdateResultInTx", ctx, tx, req.EventID, mock.MatchedBy(func(result domain.TokenResult) bool {
		return result.ReasonCode == domain.ReasonPlatformConfirmationMissing
	})).Return(nil).Once()
	suite.mockPublishEventRepo.On("Commit", ctx, tx).Return(nil).Once()
	suite.mockPublishEventRepo.On("Rollback", ctx, tx).Return(errors.New("tx is closed"))

	result, err := suite.service.Handle(ctx, domain.ModeLive, req)

	suite.Require().NoError(err)
	suite.Equal(domain.ReasonPlatformConfirmationMissing, result.ReasonCode)
	suite.mockIssuanceSvc.AssertNotCalled(suite.T(), "IssueInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PublishEventServiceTestSuite) TestHandle_ReceiptRequired() {
	ctx := context.Background()
	tx := fakeTx{}
	req := suite.confirmation()
	req.ReceiptID = ""

	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPublishEventRepo.On("Begin", ctx).Return(tx, nil).Once()
	suite.mockPublishEventRepo.On("InsertEventInTx", ctx, tx, mock.Anything).Return(nil).Once()
	suite.mockPublishEventRepo.On("UpdateResultInTx", ctx, tx, req.EventID, mock.MatchedBy(func(result domain.TokenResult) bool {
		return result.ReasonCode == domain.ReasonReceiptRequired
	})).Return(nil).Once()
	suite.mockPublishEventRepo.On("Commit", ctx, tx).Return(nil).Once()
	suite.mockPublishEventRepo.On("Rollback", ctx, tx).Return(errors.New("tx is closed"))

	result, err := suite.service.Handle(ctx, domain.ModeLive, req)

	suite.Require().NoError(err)
	suite.Equal(domain.ReasonReceiptRequired, result.ReasonCode)
	suite.mockReceiptRepo.AssertNotCalled(suite.T(), "FindReceiptByID", mock.Anything, mock.Anything)
}

func (suite *PublishEventServiceTestSuite) TestHandle_ReceiptRequiredWinsOverModeOff() {
	ctx := context.Background()
	tx := fakeTx{}
	req := suite.confirmation()
	req.ReceiptID = ""

	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPublishEventRepo.On("Begin", ctx).Return(tx, nil).Once()
	suite.mockPublishEventRepo.On("InsertEventInTx", ctx, tx, mock.Anything).Return(nil).Once()
	suite.mockPublishEventRepo.On("UpdateResultInTx", ctx, tx, req.EventID, mock.MatchedBy(func(result domain.TokenResult) bool {
		return result.ReasonCode == domain.ReasonReceiptRequired && !result.Issued
	})).Return(nil).Once()
	suite.mockPublishEventRepo.On("Commit", ctx, tx).Return(nil).Once()
	suite.mockPublishEventRepo.On("Rollback", ctx, tx).Return(errors.New("tx is closed"))

	result, err := suite.service.Handle(ctx, domain.ModeOff, req)

	suite.Require().NoError(err)
	suite.Equal(domain.ReasonReceiptRequired, result.ReasonCode)
	suite.mockReceiptRepo.AssertNotCalled(suite.T(), "FindReceiptByID", mock.Anything, mock.Anything)
	suite.mockPublishEventRepo.AssertExpectations(suite.T())
}

func (suite *PublishEventServiceTestSuite) TestHandle_ReceiptUnknown() {
	ctx := context.Background()
	tx := fakeTx{}
	req := suite.confirmation()

	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, req.ReceiptID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPublishEventRepo.On("Begin", ctx).Return(tx, nil).Once()
	suite.mockPublishEventRepo.On("InsertEventInTx", ctx, tx, mock.Anything).Return(nil).Once()
	suite.mockPublishEventRepo.On("UpdateResultInTx", ctx, tx, req.EventID, mock.MatchedBy(func(result domain.TokenResult) bool {
		return result.ReasonCode == domain.ReasonReceiptInvalid
	})).Return(nil).Once()
	suite.mockPublishEventRepo.On("Commit", ctx, tx).Return(nil).Once()
	suite.mockPublishEventRepo.On("Rollback", ctx, tx).Return(errors.New("tx is closed"))

	result, err := suite.service.Handle(ctx, domain.ModeLive, req)

	suite.Require().NoError(err)
	suite.Equal(domain.ReasonReceiptInvalid, result.ReasonCode)
}

func (suite *PublishEventServiceTestSuite) TestHandle_ReceiptExpired() {
	ctx := context.Background()
	tx := fakeTx{}
	req := suite.confirmation()
	receipt := suite.validReceipt()
	receipt.ExpiresAt = time.Now().UTC().Add(-time.Hour)

	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, req.ReceiptID).Return(receipt, nil).Once()
	suite.mockPublishEventRepo.On("Begin", ctx).Return(tx, nil).Once()
	suite.mockPublishEventRepo.On("InsertEventInTx", ctx, tx, mock.Anything).Return(nil).Once()
	suite.mockPublishEventRepo.On("UpdateResultInTx", ctx, tx, req.EventID, mock.MatchedBy(func(result domain.TokenResult) bool {
		return result.ReasonCode == domain.ReasonReceiptExpired
	})).Return(nil).Once()
	suite.mockPublishEventRepo.On("Commit", ctx, tx).Return(nil).Once()
	suite.mockPublishEventRepo.On("Rollback", ctx, tx).Return(errors.New("tx is closed"))

	result, err := suite.service.Handle(ctx, domain.ModeLive, req)

	suite.Require().NoError(err)
	suite.Equal(domain.ReasonReceiptExpired, result.ReasonCode)
}

func (suite *PublishEventServiceTestSuite) TestHandle_DelegatesToIssuance() {
	ctx := context.Background()
	tx := fakeTx{}
	req := suite.confirmation()
	entryID := uuid.NewString()
	issued := domain.TokenResult{
		Mode:          domain.ModeLive,
		Issued:        true,
		IssuedAmount:  10,
		ReasonCode:    domain.ReasonIssued,
		LedgerEntryID: &entryID,
	}

	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, req.ReceiptID).Return(suite.validReceipt(), nil).Once()
	suite.mockPublishEventRepo.On("Begin", ctx).Return(tx, nil).Once()
	suite.mockPublishEventRepo.On("InsertEventInTx", ctx, tx, mock.Anything).Return(nil).Once()
	suite.mockIssuanceSvc.On("IssueInTx", ctx, tx, mock.MatchedBy(func(cmd portssvc.IssueCommand) bool {
		return cmd.Mode == domain.ModeLive &&
			cmd.UserID == suite.userID &&
			cmd.PublishEventID == req.EventID &&
			cmd.QAStatus == domain.QAPass &&
			cmd.AuditOK
	})).Return(issued, nil).Once()
	suite.mockPublishEventRepo.On("UpdateResultInTx", ctx, tx, req.EventID, issued).Return(nil).Once()
	suite.mockPublishEventRepo.On("Commit", ctx, tx).Return(nil).Once()
	suite.mockPublishEventRepo.On("Rollback", ctx, tx).Return(errors.New("tx is closed"))

	result, err := suite.service.Handle(ctx, domain.ModeLive, req)

	suite.Require().NoError(err)
	suite.Equal(domain.ReasonIssued, result.ReasonCode)
	suite.True(result.Issued)
	suite.mockIssuanceSvc.AssertExpectations(suite.T())
}

func (suite *PublishEventServiceTestSuite) TestHandle_DuplicateRaceReadsWinnerDecision() {
	ctx := context.Background()
	tx := fakeTx{}
	req := suite.confirmation()
	winner := &domain.PublishEvent{
		EventID: req.EventID,
		UserID:  suite.userID,
		Result: &domain.TokenResult{
			Mode:         domain.ModeLive,
			Issued:       true,
			IssuedAmount: 10,
			ReasonCode:   domain.ReasonIssued,
		},
	}

	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, req.ReceiptID).Return(suite.validReceipt(), nil).Once()
	suite.mockPublishEventRepo.On("Begin", ctx).Return(tx, nil).Once()
	suite.mockPublishEventRepo.On("InsertEventInTx", ctx, tx, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	suite.mockPublishEventRepo.On("Rollback", ctx, tx).Return(nil)
	suite.mockPublishEventRepo.On("FindEventByID", ctx, req.EventID).Return(winner, nil).Once()

	result, err := suite.service.Handle(ctx, domain.ModeLive, req)

	suite.Require().NoError(err)
	suite.Equal(domain.ReasonIdempotentReplay, result.ReasonCode)
	suite.True(result.Issued)
	suite.Equal(int64(10), result.IssuedAmount)
	suite.mockPublishEventRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockIssuanceSvc.AssertNotCalled(suite.T(), "IssueInTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishEventServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PublishEventServiceTestSuite))
}
