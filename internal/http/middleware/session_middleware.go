package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/spacevoyager/bookings/internal/platform/auth"
	"github.com/spacevoyager/bookings/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// OptionalSession resolves a bearer token when one is present; requests
// without one pass through as guests.
func OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if strings.HasPrefix(authz, "Bearer ") {
			if claims, err := auth.Parse(strings.TrimPrefix(authz, "Bearer ")); err == nil {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession rejects requests without a valid bearer token.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}
		claims, err := auth.Parse(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			http.Error(w, "invalid authorization token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// withClaims also tags the logging context so request logs carry the
// session email.
func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxClaims, claims)
	return context.WithValue(ctx, logger.SessionKey, claims.Email)
}

func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
