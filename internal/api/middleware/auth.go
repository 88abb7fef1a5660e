package middleware

import (
	"context"
	"errors"
	"log"
	"logic_exercises/internal/common"
	"logic_exercises/internal/common/security"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const sessionCtxKey contextKey = "session"

// Authenticator admits a request only when jwtauth.Verifier found a token whose
// signature and expiry check out. The verified claims are stored as the
// request's session, which is the only place privilege is read from.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			if err == nil || errors.Is(err, jwtauth.ErrNoTokenFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}
			log.Printf("WARN: rejected token for %s %s: %v", r.Method, r.URL.Path, err)
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		session, err := security.SessionFromClaims(claims)
		if err != nil {
			log.Printf("WARN: token for %s %s has unusable claims: %v", r.Method, r.URL.Path, err)
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}
		if !session.IsAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithSession(ctx context.Context, session *security.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionCtxKey, session)
}

// Helper to get the verified session from context
func SessionFromContext(ctx context.Context) (*security.SessionClaims, bool) {
	session, ok := ctx.Value(sessionCtxKey).(*security.SessionClaims)
	return session, ok && session != nil
}
