package dto

import (
	"time"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// BalanceSummaryResponse is the blended balance shown to API consumers.
type BalanceSummaryResponse struct {
	UserID           string                 `json:"userID"`
	Mode             string                 `json:"mode"`
	Balance          int64                  `json:"balance"`
	PendingTotal     int64                  `json:"pendingTotal"`
	EffectiveBalance int64                  `json:"effectiveBalance"`
	LastLedgerAt     *time.Time             `json:"lastLedgerAt,omitempty"`
	LastPendingAt    *time.Time             `json:"lastPendingAt,omitempty"`
	RecentEntries    []LedgerEntryResponse  `json:"recentEntries"`
	RecentEvents     []PublishEventResponse `json:"recentEvents"`
}

// ToBalanceSummaryResponse converts the domain summary plus its recent
// activity into the response DTO.
func ToBalanceSummaryResponse(summary domain.BalanceSummary, entries []domain.LedgerEntry, events []domain.PublishEvent) BalanceSummaryResponse {
	return BalanceSummaryResponse{
		UserID:           summary.UserID,
		Mode:             string(summary.Mode),
		Balance:          summary.Balance,
		PendingTotal:     summary.PendingTotal,
		EffectiveBalance: summary.EffectiveBalance,
		LastLedgerAt:     summary.LastLedgerAt,
		LastPendingAt:    summary.LastPendingAt,
		RecentEntries:    ToListLedgerEntryResponse(entries),
		RecentEvents:     ToListPublishEventResponse(events),
	}
}

// LedgerEntryResponse is one immutable accounting record.
type LedgerEntryResponse struct {
	EntryID        string            `json:"entryID"`
	UserID         string            `json:"userID"`
	Kind           string            `json:"kind"`
	ReasonCode     string            `json:"reasonCode"`
	Amount         int64             `json:"amount"`
	BalanceAfter   *int64            `json:"balanceAfter"`
	PublishEventID string            `json:"publishEventID,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToLedgerEntryResponse(entry domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:        entry.EntryID,
		UserID:         entry.UserID,
		Kind:           string(entry.Kind),
		ReasonCode:     entry.ReasonCode,
		Amount:         entry.Amount,
		BalanceAfter:   entry.BalanceAfter,
		PublishEventID: entry.Metadata.PublishEventID,
		Extra:          entry.Metadata.Extra,
		CreatedAt:      entry.CreatedAt,
	}
}

// ToListLedgerEntryResponse converts a slice of ledger entries.
func ToListLedgerEntryResponse(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, entry := range entries {
		res[i] = ToLedgerEntryResponse(entry)
	}
	return res
}

// ListLedgerEntriesResponse is a token-paginated page of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// PendingSummaryResponse aggregates a user's queued pending rewards.
type PendingSummaryResponse struct {
	UserID      string `json:"userID"`
	TotalAmount int64  `json:"totalAmount"`
	Count       int    `json:"count"`
}

// ToPendingSummaryResponse converts a domain.PendingSummary.
func ToPendingSummaryResponse(summary domain.PendingSummary) PendingSummaryResponse {
	return PendingSummaryResponse{
		UserID:      summary.UserID,
		TotalAmount: summary.TotalAmount,
		Count:       summary.Count,
	}
}
