package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/osse101/statsgate/internal/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_RejectsAfterBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 3)
	handler := RateLimitMiddleware(limiter, nil)(okHandler())
	before := testutil.ToFloat64(metrics.InboundRateLimited)

	req := httptest.NewRequest(http.MethodGet, "/api/hw2/stats?gamertag=x", nil)
	req.RemoteAddr = "192.168.1.100:1234"

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":{"type":"rate_limit","message":"Rate limit reached. Please wait a moment and try again."}}`, rec.Body.String())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.InboundRateLimited))

	// A different client has its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/api/hw2/stats?gamertag=x", nil)
	other.RemoteAddr = "192.168.1.101:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware_UsesForwardedClientBehindTrustedProxy(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 1)
	handler := RateLimitMiddleware(limiter, []string{"10.0.0.1"})(okHandler())

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/aoe4/search?query=abc", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set(HeaderForwardedFor, client)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1"))
	assert.Equal(t, http.StatusOK, send("2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("1.1.1.1"))
}

func TestRateLimitMiddleware_HealthIsNeverLimited(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 1)
	handler := RateLimitMiddleware(limiter, nil)(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Zero(t, limiter.Len())
}

func TestIPRateLimiter_PrunesIdleEntries(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i <= cleanupThreshold; i++ {
		limiter.GetLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Greater(t, limiter.Len(), cleanupThreshold)

	now = now.Add(maxIdleAge + time.Minute)
	limiter.GetLimiter("fresh")

	assert.Equal(t, 1, limiter.Len())
}

func TestIPRateLimiter_SameIPSameLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	assert.Same(t, limiter.GetLimiter("1.2.3.4"), limiter.GetLimiter("1.2.3.4"))
	assert.NotSame(t, limiter.GetLimiter("1.2.3.4"), limiter.GetLimiter("5.6.7.8"))
}
