package mapping

import (
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	"github.com/ringlabs/ring_token_engine/internal/models"
)

// ToModelReceipt converts a domain EnforcementReceipt to a model EnforcementReceipt.
func ToModelReceipt(d domain.EnforcementReceipt) models.EnforcementReceipt {
	return models.EnforcementReceipt{
		ReceiptID: d.ReceiptID,
		QAStatus:  string(d.QAStatus),
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainReceipt converts a model EnforcementReceipt to a domain EnforcementReceipt.
func ToDomainReceipt(m models.EnforcementReceipt) domain.EnforcementReceipt {
	return domain.EnforcementReceipt{
		ReceiptID: m.ReceiptID,
		QAStatus:  domain.QAStatus(m.QAStatus),
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}
