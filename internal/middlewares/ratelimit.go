package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"api/internal/cache"
	"api/internal/configuration"
	"api/internal/helpers"
	"api/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateLimit enforces a fixed per-minute request budget per caller.
// Authenticated callers are keyed by user ID; anonymous callers by client
// IP, honoring X-Forwarded-For only when the peer is a trusted proxy.
func RateLimit(c cache.ICache, trustedProxies []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := callerIdentifier(r, trustedProxies)

			retryAfter, err := c.GetRateLimit(identifier, configuration.RateLimitPerMinute)
			if err != nil {
				zap.L().Error("Rate limit check failed", zap.Error(err))
				helpers.RespondWithError(w, 503, []string{"SERVICE_UNAVAILABLE"})
				return
			}

			if retryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				helpers.RespondWithError(w, 429, []string{"RATE_LIMITED"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func callerIdentifier(r *http.Request, trustedProxies []string) string {
	claims, ok := r.Context().Value(models.UserClaimKey{}).(models.UserClaims)
	if ok && claims.UserID != uuid.Nil {
		return claims.UserID.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if isTrustedProxy(host, trustedProxies) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			// First address in the chain is the original client.
			parts := strings.Split(forwarded, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	return host
}

func isTrustedProxy(host string, trustedProxies []string) bool {
	for _, proxy := range trustedProxies {
		if proxy == host {
			return true
		}
	}
	return false
}
