// internal/intake/check-submission-rate/middleware.go
package checksubmissionrate

import (
	"net/http"
	"strconv"

	apperrors "tribe-intake/internal/common/errors"
	"tribe-intake/internal/common/metrics"
)

// ClientID identifies the caller, honouring forwarded headers only from
// the configured trusted proxies.
func (l *Limiter) ClientID(r *http.Request) string {
	return l.config.TrustedProxies.ClientID(r)
}

// Middleware rejects over-limit clients with 429. When Redis is unavailable
// the request is let through.
func (l *Limiter) Middleware(errHandler *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := l.ClientID(r)

			d, err := l.Allow(r.Context(), clientID)
			if err != nil {
				metrics.RateLimiterErrorsTotal.Inc()
				l.logger.Warn("rate limiter unavailable, allowing request", map[string]interface{}{
					"error":    err,
					"clientId": clientID,
				})
				next.ServeHTTP(w, r)
				return
			}

			if !d.Allowed {
				metrics.RateLimitedTotal.Inc()
				errHandler.WriteError(w, r, apperrors.NewRateLimitedError(d.RetryAfter))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(d.Reset.Seconds())))

			next.ServeHTTP(w, r)
		})
	}
}
