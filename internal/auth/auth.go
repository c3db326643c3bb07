package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/canvasspace/canvasaem/internal/httputil"
	"github.com/go-chi/chi/v5"
)

type contextKey string

const sessionIDKey contextKey = "sessionID"

// SessionTokenMiddleware requires a session token for the session named by
// the {id} route parameter. EventSource cannot set headers, so the token is
// also accepted as the "token" query parameter.
func SessionTokenMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, msg := tokenFromRequest(r)
			if msg != "" {
				httputil.WriteError(w, http.StatusUnauthorized, msg)
				return
			}

			claims, err := ValidateToken(secret, tokenStr)
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			if id := chi.URLParam(r, "id"); id != "" && id != claims.SessionID {
				httputil.WriteError(w, http.StatusForbidden, "token does not match session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, string) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			return "", "invalid authorization header format"
		}
		return tokenStr, ""
	}
	if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
		return tokenStr, ""
	}
	return "", "authorization header required"
}

func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionIDKey).(string)
	return sessionID
}
