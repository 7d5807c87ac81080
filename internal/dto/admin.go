package dto

import (
	"time"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// RunBackfillRequest configures one backfill pass. DryRun defaults to true;
// mutating historical rows requires explicit opt-in.
type RunBackfillRequest struct {
	StartingBalance int64 `json:"startingBalance"`
	DryRun          *bool `json:"dryRun"`
}

// IsDryRun resolves the dry-run flag with its safe default.
func (r RunBackfillRequest) IsDryRun() bool {
	if r.DryRun == nil {
		return true
	}
	return *r.DryRun
}

// RunSyncRequest configures one external balance sync batch. An empty
// UserID means the full population.
type RunSyncRequest struct {
	UserID         string `json:"userID"`
	DryRun         *bool  `json:"dryRun"`
	CallsPerMinute int    `json:"callsPerMinute"`
}

// IsDryRun resolves the dry-run flag with its safe default.
func (r RunSyncRequest) IsDryRun() bool {
	if r.DryRun == nil {
		return true
	}
	return *r.DryRun
}

// ReconciliationReportResponse summarizes one reconciliation run.
type ReconciliationReportResponse struct {
	TotalUsers        int       `json:"totalUsers"`
	EvaluatedUsers    int       `json:"evaluatedUsers"`
	FailedUsers       int       `json:"failedUsers"`
	Mismatches        int       `json:"mismatches"`
	Adjustments       int       `json:"adjustments"`
	Overflows         int       `json:"overflows"`
	PublishMissing    []string  `json:"publishMissing"`
	PublishDuplicates []string  `json:"publishDuplicates"`
	StartedAt         time.Time `json:"startedAt"`
	FinishedAt        time.Time `json:"finishedAt"`
}

// ToReconciliationReportResponse converts a domain report.
func ToReconciliationReportResponse(report domain.ReconciliationReport) ReconciliationReportResponse {
	return ReconciliationReportResponse{
		TotalUsers:        report.TotalUsers,
		EvaluatedUsers:    report.EvaluatedUsers,
		FailedUsers:       report.FailedUsers,
		Mismatches:        report.Mismatches,
		Adjustments:       report.Adjustments,
		Overflows:         report.Overflows,
		PublishMissing:    report.PublishMissing,
		PublishDuplicates: report.PublishDuplicates,
		StartedAt:         report.StartedAt,
		FinishedAt:        report.FinishedAt,
	}
}

// BackfillReportResponse summarizes one backfill pass.
type BackfillReportResponse struct {
	DryRun                     bool  `json:"dryRun"`
	StartingBalance            int64 `json:"startingBalance"`
	Users                      int   `json:"users"`
	Rows                       int   `json:"rows"`
	Updated                    int   `json:"updated"`
	NegativeBalances           int   `json:"negativeBalances"`
	MismatchedRows             int   `json:"mismatchedRows"`
	PublishEventsMissingLedger int   `json:"publishEventsMissingLedger"`
}

// ToBackfillReportResponse converts a domain report.
func ToBackfillReportResponse(report domain.BackfillReport) BackfillReportResponse {
	return BackfillReportResponse{
		DryRun:                     report.DryRun,
		StartingBalance:            report.StartingBalance,
		Users:                      report.Users,
		Rows:                       report.Rows,
		Updated:                    report.Updated,
		NegativeBalances:           report.NegativeBalances,
		MismatchedRows:             report.MismatchedRows,
		PublishEventsMissingLedger: report.PublishEventsMissingLedger,
	}
}

// SyncFailureResponse records one user whose sync failed.
type SyncFailureResponse struct {
	UserID   string    `json:"userID"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failedAt"`
}

// SyncReportResponse summarizes one external balance sync batch.
type SyncReportResponse struct {
	DryRun   bool                  `json:"dryRun"`
	Total    int                   `json:"total"`
	Synced   int                   `json:"synced"`
	Failed   int                   `json:"failed"`
	Failures []SyncFailureResponse `json:"failures,omitempty"`
}

// ToSyncReportResponse converts a domain report.
func ToSyncReportResponse(report domain.SyncReport) SyncReportResponse {
	resp := SyncReportResponse{
		DryRun: report.DryRun,
		Total:  report.Total,
		Synced: report.Synced,
		Failed: report.Failed,
	}
	for _, failure := range report.Failures {
		resp.Failures = append(resp.Failures, SyncFailureResponse{
			UserID:   failure.UserID,
			Error:    failure.Error,
			FailedAt: failure.FailedAt,
		})
	}
	return resp
}
