// posthog_client.go provides a wrapper around the posthog.Client to make it easier to use and handle when its not initialized.
package utils

import (
	"context"
	"log/slog"

	"github.com/posthog/posthog-go"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
)

// driftEventName is the event emitted whenever reconciliation finds a
// ledger/balance mismatch.
const driftEventName = "ring_balance_drift_detected"

// PosthogClientWrapper wraps the posthog client so callers never have to
// check whether it was initialized.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

func InitializePosthogClient(apiKey, endpoint string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClientWrapper{logger: logger}
	}
	wrapper := PosthogClientWrapper{logger: logger}
	wrapper.posthogClient, _ = posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	return &wrapper
}

var _ portssvc.DriftNotifier = (*PosthogClientWrapper)(nil)

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w.posthogClient != nil
}

// NotifyDrift emits a drift-detected event. Delivery is best-effort; a
// reconciliation run never fails because a notification could not be sent.
func (w *PosthogClientWrapper) NotifyDrift(_ context.Context, drift domain.DriftNotification) {
	if w.logger != nil {
		w.logger.Warn("Balance drift detected",
			slog.String("userID", drift.UserID),
			slog.Int64("ledgerSum", drift.LedgerSum),
			slog.Int64("legacyBalance", drift.LegacyBalance),
			slog.Int64("delta", drift.Delta),
			slog.String("mode", string(drift.Mode)),
			slog.Bool("overflow", drift.Overflow),
		)
	}
	w.Enqueue(drift.UserID, driftEventName, map[string]any{
		"ledger_sum":     drift.LedgerSum,
		"legacy_balance": drift.LegacyBalance,
		"delta":          drift.Delta,
		"mode":           string(drift.Mode),
		"overflow":       drift.Overflow,
		"detected_at":    drift.DetectedAt,
	})
}

func (w *PosthogClientWrapper) Enqueue(distinctId string, event string, properties map[string]any) {
	if w.posthogClient == nil {
		return
	}
	w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: properties,
	})
}

func (w *PosthogClientWrapper) Close() {
	if w.posthogClient == nil {
		return
	}
	w.posthogClient.Close()
}
