package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newRateLimitedHandler(t *testing.T, cfg RateLimitConfig) (http.Handler, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	handler := RateLimitMiddleware(redisClient, cfg, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	cleanup := func() {
		redisClient.Close()
		mr.Close()
	}
	return handler, cleanup
}

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excessive requests are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			handler, cleanup := newRateLimitedHandler(t, RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            1 * time.Second,
				KeyPrefix:         "rate_limit",
			})
			defer cleanup()

			clientIP := "192.168.1.100"
			successCount := 0
			blockedCount := 0

			totalRequests := requestsPerWindow + excessRequests

			for i := 0; i < totalRequests; i++ {
				req := httptest.NewRequest("GET", "/api/products", nil)
				req.RemoteAddr = clientIP
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				if w.Code == http.StatusOK {
					successCount++
				} else if w.Code == http.StatusTooManyRequests {
					blockedCount++
				}
			}

			// Should allow exactly requestsPerWindow requests and block the rest
			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that rate limit headers are set correctly
func TestProperty_RateLimitHeadersAreSet(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rate limit headers are present in responses", prop.ForAll(
		func(requestsPerWindow int) bool {
			handler, cleanup := newRateLimitedHandler(t, RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            1 * time.Second,
				KeyPrefix:         "rate_limit",
			})
			defer cleanup()

			req := httptest.NewRequest("GET", "/api/products", nil)
			req.RemoteAddr = "192.168.1.101"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			hasLimit := w.Header().Get("X-RateLimit-Limit") != ""
			hasRemaining := w.Header().Get("X-RateLimit-Remaining") != ""

			return hasLimit && hasRemaining
		},
		gen.IntRange(5, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Each client gets its own bucket; one shopper hammering the API must not
// starve another
func TestProperty_RateLimitBucketsAreIndependent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("exhausting one client's bucket leaves others untouched", prop.ForAll(
		func(requestsPerWindow int) bool {
			handler, cleanup := newRateLimitedHandler(t, RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            1 * time.Second,
				KeyPrefix:         "rate_limit",
			})
			defer cleanup()

			// Exhaust the first client's allowance
			for i := 0; i < requestsPerWindow+1; i++ {
				req := httptest.NewRequest("POST", "/api/cart/add", nil)
				req.RemoteAddr = "10.0.0.7"
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)
			}

			blocked := httptest.NewRequest("POST", "/api/cart/add", nil)
			blocked.RemoteAddr = "10.0.0.7"
			blockedRec := httptest.NewRecorder()
			handler.ServeHTTP(blockedRec, blocked)
			if blockedRec.Code != http.StatusTooManyRequests {
				return false
			}

			// A different client still goes through
			other := httptest.NewRequest("POST", "/api/cart/add", nil)
			other.RemoteAddr = "10.0.0.8"
			otherRec := httptest.NewRecorder()
			handler.ServeHTTP(otherRec, other)

			return otherRec.Code == http.StatusOK
		},
		gen.IntRange(3, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
