package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pureai/hostdesk/internal/security/audit"
	"github.com/pureai/hostdesk/internal/security/ratelimit"
)

func TestRateLimitAuditsDenials(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	limiter := ratelimit.NewLimiter(1, time.Minute)
	defer limiter.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(limiter, audit.NewLogger(log), log)(next)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/floors", nil)
		req = req.WithContext(context.WithValue(req.Context(), BusinessContextKey{}, "biz-1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(); rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}
	if rec := send(); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "access_denied") {
		t.Error("expected an access_denied audit record")
	}
}

func TestRateLimitSkipsPublicPaths(t *testing.T) {
	log := slog.Default()
	limiter := ratelimit.NewLimiter(1, time.Minute)
	defer limiter.Stop()

	handler := RateLimitMiddleware(limiter, audit.NewLogger(log), log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("health checks must not be limited, got %d", rec.Code)
		}
	}
}
