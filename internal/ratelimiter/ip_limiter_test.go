package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLimitsPerIP(t *testing.T) {
	rl := NewIPRateLimiter(2, time.Minute, CleanupOpts{
		TTL:      time.Minute,
		Interval: time.Minute,
	})
	defer rl.Cancel()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234"))

	// A different address gets its own bucket.
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234"))
}

func TestGetClientIPPrefersForwardedFor(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute, CleanupOpts{
		TTL:      time.Minute,
		Interval: time.Minute,
	})
	defer rl.Cancel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.9")

	assert.Equal(t, ipAddr("10.0.0.9"), rl.GetClientIP(req))
}
