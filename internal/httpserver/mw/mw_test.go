package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/wapi/internal/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func do(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/instance/status", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitPerIP(t *testing.T) {
	h := RateLimit(RateLimitConfig{PerMinute: 1, Burst: 2})(ok)

	require.Equal(t, http.StatusOK, do(h, "10.0.0.1:1234").Code)
	require.Equal(t, http.StatusOK, do(h, "10.0.0.1:1234").Code)

	rec := do(h, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	// other clients have their own bucket
	require.Equal(t, http.StatusOK, do(h, "10.0.0.2:1234").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(RateLimitConfig{})(ok)
	for i := 0; i < 100; i++ {
		require.Equal(t, http.StatusOK, do(h, "10.0.0.1:1234").Code)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"192.168.0.0/16", "10.1.1.1"}, false, logger.NewNop())(ok)

	require.Equal(t, http.StatusOK, do(h, "192.168.4.2:5000").Code)
	require.Equal(t, http.StatusOK, do(h, "10.1.1.1:5000").Code)
	require.Equal(t, http.StatusForbidden, do(h, "10.1.1.2:5000").Code)

	open := AllowOnlyCIDRS(nil, false, logger.NewNop())(ok)
	require.Equal(t, http.StatusOK, do(open, "8.8.8.8:5000").Code)
}

func TestCORSPassesThroughNonPreflight(t *testing.T) {
	h := CORS()(ok)
	req := httptest.NewRequest(http.MethodGet, "/chat/get-all", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAllowOnlyCIDRSRejectsWithJSON(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, true, logger.NewNop())(ok)

	req := httptest.NewRequest(http.MethodGet, "/infra", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.JSONEq(t, `{"success":false,"error":"forbidden"}`, rec.Body.String())
}

func TestLogRecordsStatus(t *testing.T) {
	teapot := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})
	h := Log(logger.NewNop(), false)(teapot)

	rec := do(h, "127.0.0.1:9999")
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "short and stout", rec.Body.String())
}
