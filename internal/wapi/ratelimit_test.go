package wapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterRejectsOverCeiling(t *testing.T) {
	clock := newFakeClock()
	l := NewRateLimiter(3, clock.Now)

	for i := 0; i < 3; i++ {
		_, ok := l.Admit()
		require.True(t, ok, "admission %d", i+1)
		clock.Advance(time.Second)
	}

	wait, ok := l.Admit()
	require.False(t, ok)
	// first admission was 3s ago, so it leaves the window in 57s
	require.Equal(t, 57*time.Second, wait)
	require.Equal(t, int64(57000), ceilMillis(wait))
	require.Equal(t, 3, l.InWindow())
}

func TestRateLimiterSlidesWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewRateLimiter(2, clock.Now)

	_, ok := l.Admit()
	require.True(t, ok)
	clock.Advance(30 * time.Second)
	_, ok = l.Admit()
	require.True(t, ok)

	_, ok = l.Admit()
	require.False(t, ok)

	clock.Advance(30 * time.Second)
	_, ok = l.Admit()
	require.True(t, ok, "oldest admission aged out")

	wait, ok := l.Admit()
	require.False(t, ok)
	require.Equal(t, 30*time.Second, wait)
}

func TestRateLimiterRejectionDoesNotCount(t *testing.T) {
	clock := newFakeClock()
	l := NewRateLimiter(1, clock.Now)

	_, ok := l.Admit()
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		_, ok = l.Admit()
		require.False(t, ok)
	}
	require.Equal(t, 1, l.InWindow())

	clock.Advance(RateWindow)
	_, ok = l.Admit()
	require.True(t, ok)
}

func TestRateLimiterDisabled(t *testing.T) {
	l := NewRateLimiter(0, nil)
	for i := 0; i < 1000; i++ {
		_, ok := l.Admit()
		require.True(t, ok)
	}
}

func TestCeilMillis(t *testing.T) {
	require.Equal(t, int64(1), ceilMillis(0))
	require.Equal(t, int64(1), ceilMillis(time.Microsecond))
	require.Equal(t, int64(2), ceilMillis(1500*time.Microsecond))
	require.Equal(t, int64(60000), ceilMillis(RateWindow))
}
