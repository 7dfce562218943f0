package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pureai/hostdesk/internal/security/audit"
	"github.com/pureai/hostdesk/internal/security/auth"
	"github.com/pureai/hostdesk/internal/security/ratelimit"
)

type BusinessContextKey struct{}
type ClaimsContextKey struct{}

// isPublic reports whether a path is reachable without a bearer token.
func isPublic(path string) bool {
	switch path {
	case "/healthz", "/readyz", "/metrics",
		"/api/auth/login", "/api/auth/register", "/api/auth/signup":
		return true
	}
	return strings.HasPrefix(path, "/uploads/")
}

// JWTMiddleware authenticates every non-public request and stores the
// claims in the context. Websocket routes carry the token as a query
// parameter because browsers cannot set headers on the upgrade request.
func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// CORS preflights carry no Authorization header.
			if r.Method == http.MethodOptions || isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			var tokenString string
			if strings.HasPrefix(r.URL.Path, "/ws/") {
				tokenString = r.URL.Query().Get("token")
			} else {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					http.Error(w, `{"error":"missing auth"}`, http.StatusUnauthorized)
					return
				}
				var err error
				tokenString, err = auth.ExtractToken(authHeader)
				if err != nil {
					http.Error(w, `{"error":"invalid auth"}`, http.StatusUnauthorized)
					return
				}
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			ctx = context.WithValue(ctx, BusinessContextKey{}, claims.BusinessID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RateLimitMiddleware(limiter *ratelimit.Limiter, auditLog *audit.Logger, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			businessID := GetBusinessFromContext(r.Context())
			if !limiter.Allow(businessID) {
				auditLog.LogDenied(r.Context(), businessID, "rate limit exceeded")
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records state-changing requests before they execute.
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			businessID := GetBusinessFromContext(r.Context())

			switch {
			case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/tables"):
				auditLog.LogAction(r.Context(), businessID, "create", "table", "", "initiated", "")
			case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/tables/"):
				auditLog.LogTableDelete(r.Context(), businessID, pathSegment(r.URL.Path, 2), "initiated", "")
			case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/seat"):
				auditLog.LogSeat(r.Context(), businessID, pathSegment(r.URL.Path, 2), "initiated", "")
			case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/layout"):
				auditLog.LogLayoutSave(r.Context(), businessID, pathSegment(r.URL.Path, 2), "initiated", "")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// pathSegment returns the nth slash-separated segment of a path. Audit
// runs before mux routing, so http.Request.PathValue is not yet set.
func pathSegment(path string, n int) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if n < len(parts) {
		return parts[n]
	}
	return ""
}

func GetBusinessFromContext(ctx context.Context) string {
	if b := ctx.Value(BusinessContextKey{}); b != nil {
		return b.(string)
	}
	return ""
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}
