package gate

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultUnlockDelay   = time.Second
	DefaultFlashDuration = 350 * time.Millisecond
)

type MachineConfig struct {
	Threshold     time.Duration
	UnlockDelay   time.Duration
	FlashDuration time.Duration
	// OnTransition runs after every applied transition, under the
	// session lock. It must not call back into the session.
	OnTransition func(Transition)
	Logger       *slog.Logger
}

// Machine owns the gate state and applies the transition table. It is not
// safe for concurrent use; Session serializes access to it.
type Machine struct {
	cfg        MachineConfig
	state      State
	surface    Surface
	fullscreen *Continuity
	sched      *Scheduler
	pending    *Task
	log        *slog.Logger

	// wasFullscreen is the fullscreen memory: set when a gating pause
	// exits fullscreen, consumed by the unlock.
	wasFullscreen bool
}

func NewMachine(cfg MachineConfig, surface Surface, fullscreen *Continuity, sched *Scheduler) *Machine {
	if cfg.UnlockDelay <= 0 {
		cfg.UnlockDelay = DefaultUnlockDelay
	}
	if cfg.FlashDuration <= 0 {
		cfg.FlashDuration = DefaultFlashDuration
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if fullscreen == nil {
		fullscreen = NewContinuity(nil, cfg.Logger)
	}
	return &Machine{
		cfg:        cfg,
		state:      Hidden,
		surface:    surface,
		fullscreen: fullscreen,
		sched:      sched,
		log:        cfg.Logger,
	}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Threshold() time.Duration {
	return m.cfg.Threshold
}

// WasFullscreen reports the remembered fullscreen flag.
func (m *Machine) WasFullscreen() bool {
	return m.wasFullscreen
}

// Trigger gates playback after a threshold crossing. Outside Hidden the
// event is dropped with ErrStaleTrigger.
func (m *Machine) Trigger() error {
	to, ok := next(m.state, EventTrigger)
	if !ok {
		m.log.Debug("gate: trigger dropped", "state", m.state.String())
		return ErrStaleTrigger
	}
	m.surface.Pause()
	m.wasFullscreen = m.fullscreen.ExitIfFullscreen()
	m.enter(EventTrigger, to)
	return nil
}

// RequestGate handles the explicit "show gate" action. Before submission it
// shows the form at the threshold; after unlocking it flashes the
// already-unlocked notice.
func (m *Machine) RequestGate() error {
	switch m.state {
	case Hidden:
		m.surface.SetCurrentTime(m.cfg.Threshold)
		m.surface.Pause()
		m.wasFullscreen = m.fullscreen.ExitIfFullscreen()
		m.enter(EventManualGate, FormVisible)
		return nil
	case FormVisible:
		m.surface.SetCurrentTime(m.cfg.Threshold)
		m.surface.Pause()
		return nil
	case Unlocking:
		m.log.Debug("gate: manual request dropped while unlocking")
		return nil
	case Unlocked:
		m.enter(EventManualGate, AlreadyUnlockedFlash)
		m.schedule(m.cfg.FlashDuration, EventFlashElapsed)
		return nil
	case AlreadyUnlockedFlash:
		m.schedule(m.cfg.FlashDuration, EventFlashElapsed)
		return nil
	}
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, EventManualGate, m.state)
}

// SubmitValid starts the unlock after the form accepted a submission.
func (m *Machine) SubmitValid() error {
	switch m.state {
	case FormVisible:
	case Hidden:
		return ErrFormNotOpen
	case Unlocking, Unlocked, AlreadyUnlockedFlash:
		return ErrAlreadySubmitted
	default:
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, EventSubmitValid, m.state)
	}
	m.enter(EventSubmitValid, Unlocking)
	m.schedule(m.cfg.UnlockDelay, EventUnlockElapsed)
	return nil
}

// Stop cancels the pending unlock or flash timer.
func (m *Machine) Stop() {
	m.sched.Cancel(m.pending)
	m.pending = nil
}

func (m *Machine) schedule(d time.Duration, event Event) {
	m.sched.Cancel(m.pending)
	m.pending = m.sched.After(d, func() { m.elapsed(event) })
}

func (m *Machine) elapsed(event Event) {
	m.pending = nil
	to, ok := next(m.state, event)
	if !ok {
		m.log.Warn("gate: timer fired in unexpected state", "event", string(event), "state", m.state.String())
		return
	}
	if event == EventUnlockElapsed {
		m.fullscreen.Restore(m.wasFullscreen)
		m.wasFullscreen = false
		m.surface.Play()
	}
	m.enter(event, to)
}

// enter applies a transition after its side effects have been issued.
func (m *Machine) enter(event Event, to State) {
	t := Transition{From: m.state, Event: event, To: to}
	m.state = to
	m.log.Debug("gate: transition", "from", t.From.String(), "event", string(event), "to", to.String())
	if m.cfg.OnTransition != nil {
		m.cfg.OnTransition(t)
	}
}
