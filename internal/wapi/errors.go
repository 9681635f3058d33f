package wapi

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownOperation is returned by Call for names that are neither an
// operation nor an alias.
var ErrUnknownOperation = errors.New("unknown operation")

// RateLimitedError is returned when the local sliding window is full.
// No request was sent.
type RateLimitedError struct {
	RetryAfterMs int64
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %dms", e.RetryAfterMs)
}

// RetryAfter returns the wait as a duration.
func (e *RateLimitedError) RetryAfter() time.Duration {
	return time.Duration(e.RetryAfterMs) * time.Millisecond
}

// RemoteError is a non-2xx answer from the vendor API.
type RemoteError struct {
	StatusCode int
	Body       []byte
}

func (e *RemoteError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	if body == "" {
		return fmt.Sprintf("vendor api returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("vendor api returned HTTP %d: %s", e.StatusCode, body)
}

// ConnectionError means no response was received at all.
type ConnectionError struct {
	Message string
	Err     error
}

func (e *ConnectionError) Error() string {
	return "connection error: " + e.Message
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ConfigError is returned synchronously from New when the configuration
// cannot produce a working service.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

func IsRateLimited(err error) bool {
	var target *RateLimitedError
	return errors.As(err, &target)
}

func IsRemote(err error) bool {
	var target *RemoteError
	return errors.As(err, &target)
}

func IsConnection(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}
