package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCircuitBreakerLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute, zap.NewNop())
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	assert.True(t, cb.CanExecute())
	cb.RecordFailure()
	assert.False(t, cb.CanExecute())
	assert.NotNil(t, cb.Status().NextRetryTime)

	now = now.Add(time.Minute)
	assert.Equal(t, CircuitStateHalfOpen, cb.State())

	cb.RecordFailure()
	assert.Equal(t, CircuitStateOpen, cb.State(), "a failed probe reopens")

	now = now.Add(time.Minute)
	assert.True(t, cb.CanExecute())
	cb.RecordSuccess()
	assert.Equal(t, CircuitStateClosed, cb.State())
	assert.Zero(t, cb.Status().FailureCount)
}

func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute, zap.NewNop())

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	assert.Equal(t, CircuitStateClosed, cb.State())
}
