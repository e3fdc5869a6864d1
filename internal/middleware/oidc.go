package middleware

import (
	"context"
	"net/http"
	"strings"

	"travelshot/internal/infra"
	"travelshot/internal/infra/google"
)

// TokenVerifier validates a bearer identity token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*google.Claims, error)
}

// RequireIdentity rejects requests without a bearer token accepted by v.
// A nil verifier disables the check.
func RequireIdentity(v TokenVerifier, logger infra.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if v == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="events"`)
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			claims, err := v.Verify(r.Context(), raw)
			if err != nil {
				logger.Warn().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("http: identity rejected")
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}
			logger.Debug().Str("principal", claims.Email).Msg("http: identity accepted")
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
