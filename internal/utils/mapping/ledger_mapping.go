package mapping

import (
	"encoding/json"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	"github.com/ringlabs/ring_token_engine/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
func ToModelLedgerEntry(d domain.LedgerEntry) (models.LedgerEntry, error) {
	meta, err := json.Marshal(d.Metadata)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		UserID:       d.UserID,
		Kind:         string(d.Kind),
		ReasonCode:   d.ReasonCode,
		Amount:       d.Amount,
		BalanceAfter: d.BalanceAfter,
		Metadata:     meta,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry.
func ToDomainLedgerEntry(m models.LedgerEntry) (domain.LedgerEntry, error) {
	var meta domain.Metadata
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &meta); err != nil {
			return domain.LedgerEntry{}, err
		}
	}
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		UserID:       m.UserID,
		Kind:         domain.EntryKind(m.Kind),
		ReasonCode:   m.ReasonCode,
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		Metadata:     meta,
		CreatedAt:    m.CreatedAt,
	}, nil
}
