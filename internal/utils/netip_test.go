package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.9:4321"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	require.Equal(t, "10.0.0.9", ClientIP(req, false))
	require.Equal(t, "203.0.113.7", ClientIP(req, true))

	req.Header.Set("CF-Connecting-IP", "198.51.100.3")
	require.Equal(t, "198.51.100.3", ClientIP(req, true))
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.10 ", "garbage", ""})
	require.False(t, m.IsEmpty())
	require.True(t, m.Allow("10.20.30.40"))
	require.True(t, m.Allow("192.168.1.10"))
	require.False(t, m.Allow("192.168.1.11"))
	require.False(t, m.Allow("not-an-ip"))

	require.True(t, NewIPMatcher(nil).IsEmpty())
}

func TestIPMatcherMappedIPv4(t *testing.T) {
	m := NewIPMatcher([]string{"127.0.0.1", "2001:db8::/32"})
	require.True(t, m.Allow("::ffff:127.0.0.1"))
	require.True(t, m.Allow("2001:db8::1"))
	require.False(t, m.Allow("2001:db9::1"))
}

func TestClientIPIgnoresEmptyForwardedHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "[2001:db8::5]:443"
	req.Header.Set("X-Real-IP", "192.0.2.44")

	require.Equal(t, "192.0.2.44", ClientIP(req, true))
	require.Equal(t, "2001:db8::5", ClientIP(req, false))
}
