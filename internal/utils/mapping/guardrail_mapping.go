package mapping

import (
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	"github.com/ringlabs/ring_token_engine/internal/models"
)

// ToModelGuardrailState converts a domain GuardrailState to a model GuardrailState.
func ToModelGuardrailState(d domain.GuardrailState) models.GuardrailState {
	return models.GuardrailState{
		UserID:         d.UserID,
		DailyEarnCount: d.DailyEarnCount,
		DailyEarnTotal: d.DailyEarnTotal,
		LastEarnAt:     d.LastEarnAt,
		WindowResetAt:  d.WindowResetAt,
		Version:        d.Version,
	}
}

// ToDomainGuardrailState converts a model GuardrailState to a domain GuardrailState.
func ToDomainGuardrailState(m models.GuardrailState) domain.GuardrailState {
	return domain.GuardrailState{
		UserID:         m.UserID,
		DailyEarnCount: m.DailyEarnCount,
		DailyEarnTotal: m.DailyEarnTotal,
		LastEarnAt:     m.LastEarnAt,
		WindowResetAt:  m.WindowResetAt,
		Version:        m.Version,
	}
}
