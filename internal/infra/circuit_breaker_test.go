package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRelay = errors.New("relay unavailable")

func newTestBreaker(clock *time.Time) *CircuitBreaker {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "smtp",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	})
	cb.now = func() time.Time { return *clock }
	return cb
}

func fail() error { return errRelay }
func ok() error   { return nil }

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	clock := time.Now()
	cb := newTestBreaker(&clock)

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errRelay)
	}
	assert.Equal(t, CBClosed, cb.State())

	// a success resets the consecutive count
	require.NoError(t, cb.Execute(ok))
	for i := 0; i < 2; i++ {
		_ = cb.Execute(fail)
	}
	assert.Equal(t, CBClosed, cb.State())

	_ = cb.Execute(fail)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	clock := time.Now()
	cb := newTestBreaker(&clock)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	require.Equal(t, CBOpen, cb.State())

	clock = clock.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := time.Now()
	cb := newTestBreaker(&clock)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock = clock.Add(2 * time.Minute)
	require.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(fail)
	assert.Equal(t, CBOpen, cb.State())

	clock = clock.Add(30 * time.Second)
	assert.Equal(t, CBOpen, cb.State(), "open timeout restarts on reopen")
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "smtp"})
	assert.Equal(t, "smtp", cb.Name())
	assert.Equal(t, 5, cb.failureThreshold)
	assert.Equal(t, 2, cb.successThreshold)
	assert.Equal(t, 60*time.Second, cb.openTimeout)
	assert.Equal(t, "half-open", CBHalfOpen.String())
}
