package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/canvasspace/canvasaem/internal/auth"
	"github.com/canvasspace/canvasaem/internal/lead"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
)

const (
	testSecret    = "test-session-secret"
	testUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
)

type recordingCapturer struct {
	mu       sync.Mutex
	captures []lead.Capture
}

func (c *recordingCapturer) Capture(_ context.Context, in lead.Capture) (*lead.Lead, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.captures = append(c.captures, in)
	return &lead.Lead{ID: "lead-1", SessionID: in.SessionID, Name: in.Name, Email: in.Email, Company: in.Company}, nil
}

func (c *recordingCapturer) received() []lead.Capture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]lead.Capture(nil), c.captures...)
}

type testEnv struct {
	hub      *Hub
	clock    *clockwork.FakeClock
	capturer *recordingCapturer
	router   chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := clockwork.NewFakeClock()
	capturer := &recordingCapturer{}
	hub := NewHub(Config{
		Secret:   testSecret,
		TTL:      time.Minute,
		Clock:    clock,
		Capturer: capturer,
	})
	t.Cleanup(hub.CloseAll)

	r := chi.NewRouter()
	r.Route("/api/sessions", func(r chi.Router) {
		NewHandler(hub).Routes(r, auth.SessionTokenMiddleware(testSecret))
	})
	return &testEnv{hub: hub, clock: clock, capturer: capturer, router: r}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testUserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) create(t *testing.T, body any) createResponse {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/sessions", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp createResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) Snapshot {
	t.Helper()
	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v (%s)", err, rec.Body.String())
	}
	return snap
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
