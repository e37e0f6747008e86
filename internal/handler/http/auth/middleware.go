package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vidbrief/internal/handler/http/respond"
	authservice "vidbrief/internal/service/auth"
)

type ctxKey string

const ctxAccountID ctxKey = "account_id"

// AccountIDFromContext extracts the authenticated account ID set by Authz.
// The second return value is false when the request was not authenticated.
func AccountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxAccountID).(int64)
	return id, ok
}

// WithAccountID returns a context carrying the authenticated account ID.
// Exposed for handler tests that bypass the middleware.
func WithAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, ctxAccountID, accountID)
}

// Verifier validates a signed access token and returns its claims.
// Satisfied by *authservice.Service.
type Verifier interface {
	VerifyAccessToken(tokenString string) (*authservice.Claims, error)
}

// Authz returns middleware that requires a valid bearer token for every
// request it wraps. Token verification is delegated to the injected
// Verifier; on success the account ID is placed in the request context.
//
// Requests with a missing, malformed, expired, or otherwise invalid token
// all receive 401. Expired tokens are not distinguished in the response
// body to keep the surface uniform.
func Authz(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}

			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized: invalid token"))
				return
			}

			ctx := WithAccountID(r.Context(), claims.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(authz string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", errors.New("missing bearer token")
	}
	token := strings.TrimPrefix(authz, prefix)
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
