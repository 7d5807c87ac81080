package dto

import (
	"time"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
)

// HandlePublishEventRequest is the tuple delivered by the
// publish-confirmation collaborator. EventID is the idempotency key.
type HandlePublishEventRequest struct {
	EventID        string    `json:"eventID" binding:"required"`
	UserID         string    `json:"userID" binding:"required"`
	Platform       string    `json:"platform" binding:"required"`
	ContentHash    string    `json:"contentHash"`
	PlatformPostID string    `json:"platformPostID"`
	PublishedAt    time.Time `json:"publishedAt" binding:"required"`
	ReceiptID      string    `json:"receiptID"`
	AuditOK        bool      `json:"auditOK"`
}

// ToPublishConfirmation converts the request to the service-layer command.
func (r HandlePublishEventRequest) ToPublishConfirmation() portssvc.PublishConfirmation {
	return portssvc.PublishConfirmation{
		EventID:        r.EventID,
		UserID:         r.UserID,
		Platform:       r.Platform,
		ContentHash:    r.ContentHash,
		PlatformPostID: r.PlatformPostID,
		PublishedAt:    r.PublishedAt,
		ReceiptID:      r.ReceiptID,
		AuditOK:        r.AuditOK,
	}
}

// TokenResultResponse is the decision returned for one publish event.
type TokenResultResponse struct {
	Mode            string    `json:"mode"`
	Issued          bool      `json:"issued"`
	IssuedAmount    int64     `json:"issuedAmount"`
	PendingAmount   int64     `json:"pendingAmount"`
	ReasonCode      string    `json:"reasonCode"`
	LedgerEntryID   *string   `json:"ledgerEntryID,omitempty"`
	PendingRewardID *string   `json:"pendingRewardID,omitempty"`
	Violations      []string  `json:"violations,omitempty"`
	DecidedAt       time.Time `json:"decidedAt"`
}

// ToTokenResultResponse converts a domain.TokenResult to its response DTO.
func ToTokenResultResponse(result domain.TokenResult) TokenResultResponse {
	return TokenResultResponse{
		Mode:            string(result.Mode),
		Issued:          result.Issued,
		IssuedAmount:    result.IssuedAmount,
		PendingAmount:   result.PendingAmount,
		ReasonCode:      string(result.ReasonCode),
		LedgerEntryID:   result.LedgerEntryID,
		PendingRewardID: result.PendingRewardID,
		Violations:      result.Violations,
		DecidedAt:       result.DecidedAt,
	}
}

// PublishEventResponse summarizes one recorded publish attempt.
type PublishEventResponse struct {
	EventID        string               `json:"eventID"`
	UserID         string               `json:"userID"`
	Platform       string               `json:"platform"`
	PlatformPostID string               `json:"platformPostID"`
	PublishedAt    time.Time            `json:"publishedAt"`
	ReceiptID      string               `json:"receiptID,omitempty"`
	QAStatus       string               `json:"qaStatus,omitempty"`
	Result         *TokenResultResponse `json:"result,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// ToPublishEventResponse converts a domain.PublishEvent to its response DTO.
func ToPublishEventResponse(event domain.PublishEvent) PublishEventResponse {
	resp := PublishEventResponse{
		EventID:        event.EventID,
		UserID:         event.UserID,
		Platform:       event.Platform,
		PlatformPostID: event.PlatformPostID,
		PublishedAt:    event.PublishedAt,
		ReceiptID:      event.ReceiptID,
		QAStatus:       string(event.QAStatus),
		CreatedAt:      event.CreatedAt,
	}
	if event.Result != nil {
		result := ToTokenResultResponse(*event.Result)
		resp.Result = &result
	}
	return resp
}

// ToListPublishEventResponse converts a slice of publish events.
func ToListPublishEventResponse(events []domain.PublishEvent) []PublishEventResponse {
	res := make([]PublishEventResponse, len(events))
	for i, event := range events {
		res[i] = ToPublishEventResponse(event)
	}
	return res
}
