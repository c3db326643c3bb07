package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/canvasspace/canvasaem/internal/httputil"
)

const streamKeepaliveInterval = 15 * time.Second

// subscriber is one connected event stream. wake holds at most one
// pending signal; the stream reads the latest snapshot when it wakes.
type subscriber struct {
	wake chan struct{}
}

func (e *entry) subscribe() (*subscriber, bool) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	if e.closed {
		return nil, false
	}
	s := &subscriber{wake: make(chan struct{}, 1)}
	e.subs[s] = struct{}{}
	return s, true
}

func (e *entry) unsubscribe(s *subscriber) {
	e.subsMu.Lock()
	delete(e.subs, s)
	e.subsMu.Unlock()
}

// publish wakes every subscriber without blocking. It runs under the gate
// session lock, so it must not read the gate.
func (e *entry) publish() {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for s := range e.subs {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// Stream handles GET /api/sessions/{id}/stream.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sub, ok := e.subscribe()
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "session not found")
		return
	}
	defer e.unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	// The stream outlives the server's write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	writeSnapshot(w, e.snapshot())
	flusher.Flush()

	keepalive := h.hub.clock.NewTicker(streamKeepaliveInterval)
	defer keepalive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			fmt.Fprintf(w, "event: closed\ndata: {}\n\n")
			flusher.Flush()
			return
		case <-sub.wake:
			writeSnapshot(w, e.snapshot())
			flusher.Flush()
		case now := <-keepalive.Chan():
			e.touch(now)
			fmt.Fprintf(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeSnapshot(w http.ResponseWriter, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Warn("session: failed to marshal snapshot", "session_id", snap.ID, "error", err)
		return
	}
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
}
