package mapping

import (
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	"github.com/ringlabs/ring_token_engine/internal/models"
)

// ToModelPublishEvent converts a domain PublishEvent to a model PublishEvent,
// flattening the optional result into the nullable result columns.
func ToModelPublishEvent(d domain.PublishEvent) models.PublishEvent {
	m := models.PublishEvent{
		EventID:        d.EventID,
		UserID:         d.UserID,
		Platform:       d.Platform,
		ContentHash:    d.ContentHash,
		PlatformPostID: d.PlatformPostID,
		PublishedAt:    d.PublishedAt,
		ReceiptID:      d.ReceiptID,
		QAStatus:       string(d.QAStatus),
		CreatedAt:      d.CreatedAt,
	}
	if d.Result != nil {
		mode := string(d.Result.Mode)
		issued := d.Result.Issued
		issuedAmount := d.Result.IssuedAmount
		pendingAmount := d.Result.PendingAmount
		reason := string(d.Result.ReasonCode)
		decidedAt := d.Result.DecidedAt
		m.ResultMode = &mode
		m.Issued = &issued
		m.IssuedAmount = &issuedAmount
		m.PendingAmount = &pendingAmount
		m.ReasonCode = &reason
		m.LedgerEntryID = d.Result.LedgerEntryID
		m.PendingID = d.Result.PendingRewardID
		m.Violations = d.Result.Violations
		m.DecidedAt = &decidedAt
	}
	return m
}

// ToDomainPublishEvent converts a model PublishEvent to a domain
// PublishEvent, reassembling the result when the event has been decided.
func ToDomainPublishEvent(m models.PublishEvent) domain.PublishEvent {
	d := domain.PublishEvent{
		EventID:        m.EventID,
		UserID:         m.UserID,
		Platform:       m.Platform,
		ContentHash:    m.ContentHash,
		PlatformPostID: m.PlatformPostID,
		PublishedAt:    m.PublishedAt,
		ReceiptID:      m.ReceiptID,
		QAStatus:       domain.QAStatus(m.QAStatus),
		CreatedAt:      m.CreatedAt,
	}
	if m.ReasonCode != nil && m.DecidedAt != nil {
		result := domain.TokenResult{
			ReasonCode:      domain.ReasonCode(*m.ReasonCode),
			LedgerEntryID:   m.LedgerEntryID,
			PendingRewardID: m.PendingID,
			Violations:      m.Violations,
			DecidedAt:       *m.DecidedAt,
		}
		if m.ResultMode != nil {
			result.Mode = domain.Mode(*m.ResultMode)
		}
		if m.Issued != nil {
			result.Issued = *m.Issued
		}
		if m.IssuedAmount != nil {
			result.IssuedAmount = *m.IssuedAmount
		}
		if m.PendingAmount != nil {
			result.PendingAmount = *m.PendingAmount
		}
		d.Result = &result
	}
	return d
}
