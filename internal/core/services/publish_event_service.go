package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
)

// maxDecisionAttempts bounds the insert/re-read loop when two requests race
// on the same event id and the winner has not committed yet.
const maxDecisionAttempts = 3

// publishEventService binds one issuance outcome to one publish attempt.
// The primary key on the event id converts a duplicate-submission race into
// "first writer wins, second reads the result".
type publishEventService struct {
	publishEventRepo portsrepo.PublishEventRepositoryWithTx
	receiptRepo      portsrepo.ReceiptRepositoryFacade
	issuanceSvc      portssvc.IssuanceSvcFacade
}

// NewPublishEventService creates a new PublishEventService.
func NewPublishEventService(
	publishEventRepo portsrepo.PublishEventRepositoryWithTx,
	receiptRepo portsrepo.ReceiptRepositoryFacade,
	issuanceSvc portssvc.IssuanceSvcFacade,
) portssvc.PublishEventSvcFacade {
	return &publishEventService{
		publishEventRepo: publishEventRepo,
		receiptRepo:      receiptRepo,
		issuanceSvc:      issuanceSvc,
	}
}

var _ portssvc.PublishEventSvcFacade = (*publishEventService)(nil)

// Handle decides the token outcome for one publish confirmation, replay-safe.
func (s *publishEventService) Handle(ctx context.Context, mode domain.Mode, req portssvc.PublishConfirmation) (domain.TokenResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.EventID == "" || req.UserID == "" {
		return domain.TokenResult{}, apperrors.NewAppError(400, "publish event id and user id are required", apperrors.ErrValidation)
	}
	if !mode.Valid() {
		return domain.TokenResult{}, apperrors.NewAppError(400, fmt.Sprintf("unknown mode %q", mode), apperrors.ErrValidation)
	}

	// Fast path: a prior call already decided this event.
	existing, err := s.publishEventRepo.FindEventByID(ctx, req.EventID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return domain.TokenResult{}, fmt.Errorf("failed to look up publish event %s: %w", req.EventID, err)
	}
	if existing != nil && existing.Result != nil {
		return replayResult(*existing.Result), nil
	}

	for attempt := 1; attempt <= maxDecisionAttempts; attempt++ {
		result, err := s.decideOnce(ctx, mode, req)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return domain.TokenResult{}, err
		}

		// Someone else claimed the event id; read their decision.
		winner, ferr := s.publishEventRepo.FindEventByID(ctx, req.EventID)
		if ferr != nil && !errors.Is(ferr, apperrors.ErrNotFound) {
			return domain.TokenResult{}, fmt.Errorf("failed to re-read publish event %s: %w", req.EventID, ferr)
		}
		if winner != nil && winner.Result != nil {
			logger.Info("Publish event already decided by concurrent request",
				slog.String("eventID", req.EventID),
				slog.Int("attempt", attempt),
			)
			return replayResult(*winner.Result), nil
		}
		// Winner has not committed yet; loop and look again.
	}
	return domain.TokenResult{}, apperrors.NewAppError(409, fmt.Sprintf("could not resolve concurrent decision for event %s", req.EventID), apperrors.ErrConflict)
}

// decideOnce claims the event id and records the full decision in one
// transaction. Returns apperrors.ErrDuplicate if another request holds the
// id.
func (s *publishEventService) decideOnce(ctx context.Context, mode domain.Mode, req portssvc.PublishConfirmation) (domain.TokenResult, error) {
	now := time.Now().UTC()

	qaStatus, receiptReason, err := s.resolveReceipt(ctx, req.ReceiptID, now)
	if err != nil {
		return domain.TokenResult{}, err
	}

	tx, err := s.publishEventRepo.Begin(ctx)
	if err != nil {
		return domain.TokenResult{}, fmt.Errorf("failed to begin transaction for event %s: %w", req.EventID, err)
	}
	defer func() {
		_ = s.publishEventRepo.Rollback(ctx, tx)
	}()

	event := domain.PublishEvent{
		EventID:        req.EventID,
		UserID:         req.UserID,
		Platform:       req.Platform,
		ContentHash:    req.ContentHash,
		PlatformPostID: req.PlatformPostID,
		PublishedAt:    req.PublishedAt,
		ReceiptID:      req.ReceiptID,
		QAStatus:       qaStatus,
		CreatedAt:      now,
	}
	if err := s.publishEventRepo.InsertEventInTx(ctx, tx, event); err != nil {
		return domain.TokenResult{}, err
	}

	var result domain.TokenResult
	switch {
	// Receipt problems win over everything else: the receipt is validated
	// before any issuance concern, mode included.
	case receiptReason != "":
		result = shortCircuitResult(mode, receiptReason, now)
	case mode == domain.ModeOff:
		result = shortCircuitResult(mode, domain.ReasonTokenIssuanceOff, now)
	case req.PlatformPostID == "":
		result = shortCircuitResult(mode, domain.ReasonPlatformConfirmationMissing, now)
	default:
		result, err = s.issuanceSvc.IssueInTx(ctx, tx, portssvc.IssueCommand{
			Mode:           mode,
			UserID:         req.UserID,
			PublishEventID: req.EventID,
			Platform:       req.Platform,
			QAStatus:       qaStatus,
			AuditOK:        req.AuditOK,
			Now:            now,
		})
		if err != nil {
			return domain.TokenResult{}, err
		}
	}

	if err := s.publishEventRepo.UpdateResultInTx(ctx, tx, req.EventID, result); err != nil {
		return domain.TokenResult{}, fmt.Errorf("failed to record result for event %s: %w", req.EventID, err)
	}
	if err := s.publishEventRepo.Commit(ctx, tx); err != nil {
		return domain.TokenResult{}, fmt.Errorf("failed to commit decision for event %s: %w", req.EventID, err)
	}
	return result, nil
}

// resolveReceipt validates the enforcement receipt reference. Receipt
// problems come back as a reason code, not an error; they short-circuit the
// decision but still get recorded on the event row.
func (s *publishEventService) resolveReceipt(ctx context.Context, receiptID string, now time.Time) (domain.QAStatus, domain.ReasonCode, error) {
	if receiptID == "" {
		return "", domain.ReasonReceiptRequired, nil
	}
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", domain.ReasonReceiptInvalid, nil
		}
		return "", "", fmt.Errorf("failed to resolve receipt %s: %w", receiptID, err)
	}
	if receipt.Expired(now) {
		return "", domain.ReasonReceiptExpired, nil
	}
	if receipt.QAStatus != domain.QAPass && receipt.QAStatus != domain.QAFail {
		return "", domain.ReasonReceiptInvalid, nil
	}
	return receipt.QAStatus, "", nil
}

func shortCircuitResult(mode domain.Mode, reason domain.ReasonCode, now time.Time) domain.TokenResult {
	return domain.TokenResult{
		Mode:       mode,
		ReasonCode: reason,
		DecidedAt:  now,
	}
}

// replayResult returns the stored decision with the reason code rewritten;
// amounts and references stay exactly as first decided.
func replayResult(stored domain.TokenResult) domain.TokenResult {
	stored.ReasonCode = domain.ReasonIdempotentReplay
	return stored
}
