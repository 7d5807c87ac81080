package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

func TestResetIfExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("inside window is a no-op", func(t *testing.T) {
		state := domain.GuardrailState{
			DailyEarnCount: 5,
			DailyEarnTotal: 50,
			WindowResetAt:  now.Add(-23 * time.Hour),
		}
		assert.False(t, state.ResetIfExpired(now))
		assert.Equal(t, 5, state.DailyEarnCount)
		assert.Equal(t, int64(50), state.DailyEarnTotal)
	})

	t.Run("past window zeroes counters", func(t *testing.T) {
		state := domain.GuardrailState{
			DailyEarnCount: 5,
			DailyEarnTotal: 50,
			WindowResetAt:  now.Add(-25 * time.Hour),
		}
		assert.True(t, state.ResetIfExpired(now))
		assert.Equal(t, 0, state.DailyEarnCount)
		assert.Equal(t, int64(0), state.DailyEarnTotal)
		assert.True(t, state.WindowResetAt.Equal(now))
	})

	t.Run("second application for the same now is a no-op", func(t *testing.T) {
		state := domain.GuardrailState{
			DailyEarnCount: 5,
			WindowResetAt:  now.Add(-25 * time.Hour),
		}
		assert.True(t, state.ResetIfExpired(now))
		assert.False(t, state.ResetIfExpired(now))
	})
}

func TestApplyReduction(t *testing.T) {
	assert.Equal(t, int64(10), domain.GuardrailVerdict{ReductionPercent: 0}.ApplyReduction(10))
	assert.Equal(t, int64(5), domain.GuardrailVerdict{ReductionPercent: 50}.ApplyReduction(10))
	assert.Equal(t, int64(2), domain.GuardrailVerdict{ReductionPercent: 75}.ApplyReduction(10))
	assert.Equal(t, int64(0), domain.GuardrailVerdict{ReductionPercent: 100}.ApplyReduction(10))
	// Floor division: 75% off of 1 rounds down to zero.
	assert.Equal(t, int64(0), domain.GuardrailVerdict{ReductionPercent: 75}.ApplyReduction(1))
}
