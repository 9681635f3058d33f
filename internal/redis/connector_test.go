package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/wapi/internal/logger"
)

func TestNextBackoff(t *testing.T) {
	require.Equal(t, 2*time.Second, nextBackoff(time.Second, 5*time.Second))
	require.Equal(t, 5*time.Second, nextBackoff(4*time.Second, 5*time.Second))
	require.Equal(t, 5*time.Second, nextBackoff(5*time.Second, 5*time.Second))
}

func TestNewValidatesOptions(t *testing.T) {
	valid := ConnectOptions{
		Addr:           "127.0.0.1:6379",
		ConnectTimeout: time.Second,
		RetryInterval:  time.Millisecond,
		MaxWait:        time.Millisecond,
		PingTimeout:    time.Millisecond,
	}

	tests := []struct {
		name   string
		mutate func(o *ConnectOptions)
	}{
		{"missing addr", func(o *ConnectOptions) { o.Addr = "" }},
		{"zero connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }},
		{"zero retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }},
		{"zero max wait", func(o *ConnectOptions) { o.MaxWait = 0 }},
		{"zero ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)
			_, err := New(context.Background(), opts, logger.NewNop())
			require.Error(t, err)
		})
	}
}

func TestNewGivesUpWhenUnreachable(t *testing.T) {
	opts := ConnectOptions{
		// port 1 on loopback refuses connections
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 50 * time.Millisecond,
		RetryInterval:  5 * time.Millisecond,
		MaxWait:        10 * time.Millisecond,
		PingTimeout:    10 * time.Millisecond,
	}
	_, err := New(context.Background(), opts, logger.NewNop())
	require.ErrorContains(t, err, "redis unavailable at 127.0.0.1:1")
}
