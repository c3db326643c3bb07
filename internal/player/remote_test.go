package player

import (
	"testing"
	"time"

	"github.com/canvasspace/canvasaem/internal/gate"
)

var (
	_ gate.Surface    = (*Remote)(nil)
	_ gate.Fullscreen = (*Remote)(nil)
	_ gate.Viewport   = (*Remote)(nil)
)

func ptr[T any](v T) *T { return &v }

func TestReportUpdatesMirror(t *testing.T) {
	r := NewRemote()
	r.Report(Report{CurrentTime: ptr(12.5), Paused: ptr(false), Fullscreen: ptr(true)})
	r.Report(Report{ScrollY: ptr(300.0), ViewportHeight: ptr(900.0)})

	m := r.Mirror()
	want := Mirror{CurrentTime: 12.5, Paused: false, Fullscreen: true, ScrollY: 300, ViewportHeight: 900}
	if m != want {
		t.Errorf("expected %+v, got %+v", want, m)
	}
	if got := r.CurrentTime(); got != 12500*time.Millisecond {
		t.Errorf("expected 12.5s, got %v", got)
	}
}

func TestReportIgnoresNegativeValues(t *testing.T) {
	r := NewRemote()
	r.Report(Report{CurrentTime: ptr(5.0), ViewportHeight: ptr(700.0)})
	r.Report(Report{CurrentTime: ptr(-1.0), ViewportHeight: ptr(-3.0)})

	m := r.Mirror()
	if m.CurrentTime != 5 || m.ViewportHeight != 700 {
		t.Errorf("expected negative reports ignored, got %+v", m)
	}
}

func TestPauseAndPlayAreIdempotent(t *testing.T) {
	r := NewRemote()
	r.Report(Report{Paused: ptr(false)})

	r.Pause()
	r.Pause()
	r.Play()
	r.Play()

	cmds := r.Drain()
	if len(cmds) != 2 || cmds[0].Kind != CommandPause || cmds[1].Kind != CommandPlay {
		t.Errorf("expected [pause play], got %+v", cmds)
	}
}

func TestDrainClearsQueue(t *testing.T) {
	r := NewRemote()
	r.SetCurrentTime(10 * time.Second)
	r.ScrollTo(800)
	_ = r.ExitFullscreen()
	_ = r.RequestFullscreen()

	cmds := r.Drain()
	if len(cmds) != 4 {
		t.Fatalf("expected 4 commands, got %+v", cmds)
	}
	if cmds[0].Kind != CommandSeek || *cmds[0].Time != 10 {
		t.Errorf("unexpected seek %+v", cmds[0])
	}
	if cmds[1].Kind != CommandScrollTo || *cmds[1].Top != 800 {
		t.Errorf("unexpected scroll %+v", cmds[1])
	}
	if cmds[2].Kind != CommandExitFullscreen || cmds[3].Kind != CommandRequestFullscreen {
		t.Errorf("unexpected fullscreen commands %+v", cmds[2:])
	}
	if again := r.Drain(); len(again) != 0 {
		t.Errorf("expected empty queue after drain, got %+v", again)
	}
}

func TestOnCommandRunsPerQueuedCommand(t *testing.T) {
	r := NewRemote()
	var calls int
	r.OnCommand(func() {
		calls++
		if r.Pending() == 0 {
			t.Error("expected command queued before notification")
		}
	})

	r.Pause()
	r.Play()
	r.Play()
	r.ScrollTo(120)

	if calls != 2 {
		t.Errorf("expected 2 notifications, got %d", calls)
	}
	if r.Pending() != 2 {
		t.Errorf("expected 2 pending commands, got %d", r.Pending())
	}
}

func TestRemoteDrivesGateSession(t *testing.T) {
	r := NewRemote()
	s, err := gate.NewSession(gate.Config{Threshold: 10 * time.Second}, r, r, r)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	r.Report(Report{CurrentTime: ptr(15.0), Paused: ptr(false), Fullscreen: ptr(true)})
	if err := s.Seeked(); err != nil {
		t.Fatalf("Seeked: %v", err)
	}

	if got := s.State(); got != gate.FormVisible {
		t.Fatalf("expected formVisible, got %s", got)
	}
	kinds := map[CommandKind]bool{}
	for _, c := range r.Drain() {
		kinds[c.Kind] = true
	}
	for _, k := range []CommandKind{CommandSeek, CommandPause, CommandExitFullscreen} {
		if !kinds[k] {
			t.Errorf("expected %s command, got %v", k, kinds)
		}
	}
	if m := r.Mirror(); m.CurrentTime != 10 || !m.Paused || m.Fullscreen {
		t.Errorf("unexpected mirror %+v", m)
	}
}
