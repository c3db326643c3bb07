package gate

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeSurface struct {
	mu      sync.Mutex
	current time.Duration
	paused  bool
	plays   int
	pauses  int
	seeks   []time.Duration
}

func (f *fakeSurface) CurrentTime() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeSurface) SetCurrentTime(t time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = t
	f.seeks = append(f.seeks, t)
}

func (f *fakeSurface) Play() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = false
	f.plays++
}

func (f *fakeSurface) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
	f.pauses++
}

// playTo simulates the viewer's player moving to t.
func (f *fakeSurface) playTo(t time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = t
	f.paused = false
}

func (f *fakeSurface) snapshot() (current time.Duration, paused bool, plays, pauses int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.paused, f.plays, f.pauses
}

type fakeFullscreen struct {
	mu         sync.Mutex
	active     bool
	exits      int
	requests   int
	exitErr    error
	requestErr error
}

func (f *fakeFullscreen) IsFullscreen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeFullscreen) ExitFullscreen() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exits++
	if f.exitErr != nil {
		return f.exitErr
	}
	f.active = false
	return nil
}

func (f *fakeFullscreen) RequestFullscreen() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	if f.requestErr != nil {
		return f.requestErr
	}
	f.active = true
	return nil
}

func (f *fakeFullscreen) counts() (exits, requests int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exits, f.requests
}

type fakeViewport struct {
	mu       sync.Mutex
	offset   float64
	height   float64
	scrolled []float64
}

func (f *fakeViewport) ScrollOffset() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset
}

func (f *fakeViewport) ViewportHeight() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.height
}

func (f *fakeViewport) ScrollTo(offset float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offset = offset
	f.scrolled = append(f.scrolled, offset)
}

func (f *fakeViewport) scrollBy(offset float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offset = offset
}

func (f *fakeViewport) scrolls() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.scrolled...)
}

type recordingSink struct {
	leads chan Lead
	err   error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{leads: make(chan Lead, 4)}
}

func (r *recordingSink) CaptureLead(ctx context.Context, lead Lead) error {
	r.leads <- lead
	return r.err
}

// waitFor polls cond until it holds; timer callbacks of the fake clock may
// run on their own goroutine.
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

func fillForm(t *testing.T, s *Session, fields map[string]string) {
	t.Helper()
	for name, value := range fields {
		if err := s.SetField(name, value); err != nil {
			t.Fatalf("SetField(%q): %v", name, err)
		}
	}
}

func validFields() map[string]string {
	return map[string]string{FieldName: "A", FieldEmail: "a@b.com", FieldCompany: "C"}
}
