package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func testAdminHash(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func serveAdmin(hash string, req *http.Request) (*httptest.ResponseRecorder, bool) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	AdminKeyMiddleware(hash)(next).ServeHTTP(rec, req)
	return rec, nextCalled
}

func TestHashAdminKey_Verifies(t *testing.T) {
	hash, err := HashAdminKey("admin-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("admin-key")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
}

func TestHashAdminKey_RejectsEmptyAndLong(t *testing.T) {
	if _, err := HashAdminKey(""); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := HashAdminKey(strings.Repeat("k", 73)); err == nil {
		t.Error("expected error for key longer than bcrypt accepts")
	}
}

func TestAdminKeyMiddleware_HeaderKey(t *testing.T) {
	hash := testAdminHash(t, "admin-key")
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("X-API-Key", "admin-key")

	rec, nextCalled := serveAdmin(hash, req)

	if rec.Code != http.StatusOK || !nextCalled {
		t.Errorf("expected pass-through, got status %d", rec.Code)
	}
}

func TestAdminKeyMiddleware_BearerKey(t *testing.T) {
	hash := testAdminHash(t, "admin-key")
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer admin-key")

	rec, nextCalled := serveAdmin(hash, req)

	if rec.Code != http.StatusOK || !nextCalled {
		t.Errorf("expected pass-through, got status %d", rec.Code)
	}
}

func TestAdminKeyMiddleware_WrongKey(t *testing.T) {
	hash := testAdminHash(t, "admin-key")
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("X-API-Key", "guess")

	rec, nextCalled := serveAdmin(hash, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if nextCalled {
		t.Error("next handler should not have been called")
	}
}

func TestAdminKeyMiddleware_MissingKey(t *testing.T) {
	hash := testAdminHash(t, "admin-key")
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)

	rec, _ := serveAdmin(hash, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if errMsg := decodeErrorResponse(t, rec); errMsg != "API key required" {
		t.Errorf("unexpected error %q", errMsg)
	}
}

func TestAdminKeyMiddleware_DisabledWithoutHash(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("X-API-Key", "anything")

	rec, nextCalled := serveAdmin("", req)

	if rec.Code != http.StatusNotFound || nextCalled {
		t.Errorf("expected admin API disabled, got status %d", rec.Code)
	}
}
