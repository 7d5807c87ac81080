package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

func TestModeValid(t *testing.T) {
	assert.True(t, domain.ModeOff.Valid())
	assert.True(t, domain.ModeShadow.Valid())
	assert.True(t, domain.ModeLive.Valid())
	assert.False(t, domain.Mode("").Valid())
	assert.False(t, domain.Mode("canary").Valid())
	assert.False(t, domain.Mode("OFF").Valid())
}

func TestReceiptExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	receipt := domain.EnforcementReceipt{ExpiresAt: now}

	assert.False(t, receipt.Expired(now.Add(-time.Second)))
	// Expiry boundary counts as expired.
	assert.True(t, receipt.Expired(now))
	assert.True(t, receipt.Expired(now.Add(time.Second)))
}
