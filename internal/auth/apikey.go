package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/canvasspace/canvasaem/internal/httputil"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminKeyHeader = "X-API-Key"
	maxAdminKeyLen = 72
)

// HashAdminKey returns the bcrypt hash operators put in ADMIN_API_KEY_HASH.
func HashAdminKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("admin key must not be empty")
	}
	if len(key) > maxAdminKeyLen {
		return "", fmt.Errorf("admin key must be at most %d bytes", maxAdminKeyLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin key: %w", err)
	}
	return string(hash), nil
}

// AdminKeyMiddleware guards the lead admin API. The key comes from the
// X-API-Key header or a Bearer authorization header. An empty hash disables
// the admin API entirely.
func AdminKeyMiddleware(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hash == "" {
				httputil.WriteError(w, http.StatusNotFound, "admin API disabled")
				return
			}

			key := r.Header.Get(adminKeyHeader)
			if key == "" {
				key, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			}
			if key == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "API key required")
				return
			}
			if len(key) > maxAdminKeyLen {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
