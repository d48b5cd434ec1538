package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scroll-fleet/deployer/pkg/logger"
)

func TestCircuitBreakerTripsAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(true, 3, time.Minute, time.Hour, &logger.EmptyLogger{})

	assert.False(t, cb.RecordFailure())
	assert.False(t, cb.RecordFailure())
	assert.False(t, cb.IsOpen())

	assert.True(t, cb.RecordFailure())
	assert.True(t, cb.IsOpen())
}

func TestCircuitBreakerDisabledNeverOpens(t *testing.T) {
	cb := NewCircuitBreaker(false, 1, time.Minute, time.Hour, &logger.EmptyLogger{})

	assert.False(t, cb.RecordFailure())
	assert.False(t, cb.RecordFailure())
	assert.False(t, cb.IsOpen())
	assert.False(t, cb.IsEnabled())
}

func TestCircuitBreakerManualReset(t *testing.T) {
	cb := NewCircuitBreaker(true, 1, time.Minute, time.Hour, &logger.EmptyLogger{})

	assert.True(t, cb.RecordFailure())
	assert.True(t, cb.IsOpen())

	cb.Reset()
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreakerReopensAfterResetTimeout(t *testing.T) {
	cb := NewCircuitBreaker(true, 1, time.Minute, 10*time.Millisecond, &logger.EmptyLogger{})

	assert.True(t, cb.RecordFailure())
	assert.True(t, cb.IsOpen())

	time.Sleep(20 * time.Millisecond)
	assert.False(t, cb.IsOpen())
}
