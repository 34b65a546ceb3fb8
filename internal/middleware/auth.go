package middleware

import (
	"context"
	"net/http"

	"github.com/dipansrimany2006/mlink-client/internal/model"
	"github.com/dipansrimany2006/mlink-client/internal/service"
)

type contextKey string

const apiKeyContextKey contextKey = "api_key"

// APIKeyHeader carries the bearer token on registry write requests.
const APIKeyHeader = "x-api-key"

// GetAPIKey extracts the authenticated API key from the request context.
func GetAPIKey(ctx context.Context) *model.APIKey {
	key, _ := ctx.Value(apiKeyContextKey).(*model.APIKey)
	return key
}

// APIKeyAuth returns middleware that authenticates requests via the
// x-api-key header. Authentication touches the key's last-used timestamp.
func APIKeyAuth(svc *service.APIKeyService, limiter *AuthAttemptLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attemptKey := clientIPKey(r, "api_key")
			if limiter != nil && !limiter.allow(attemptKey) {
				respondError(w, http.StatusTooManyRequests, "rate_limited", "Too many authentication failures")
				return
			}

			token := r.Header.Get(APIKeyHeader)
			apiKey, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				if limiter != nil {
					limiter.registerFailure(attemptKey)
				}
				service.RespondError(w, err)
				return
			}

			if limiter != nil {
				limiter.registerSuccess(attemptKey)
			}
			ctx := context.WithValue(r.Context(), apiKeyContextKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
