package services

import (
	"context"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// DriftNotifier delivers drift-detected notifications to the external
// event mechanism. Delivery is best-effort; reconciliation never fails a
// user because a notification could not be sent.
type DriftNotifier interface {
	NotifyDrift(ctx context.Context, drift domain.DriftNotification)
}
