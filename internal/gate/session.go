package gate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const defaultSinkTimeout = 30 * time.Second

// LeadSink receives accepted lead submissions. Delivery is fire and forget:
// a sink error never changes the gate state.
type LeadSink interface {
	CaptureLead(ctx context.Context, lead Lead) error
}

// LeadSinkFunc adapts a function to LeadSink.
type LeadSinkFunc func(ctx context.Context, lead Lead) error

func (f LeadSinkFunc) CaptureLead(ctx context.Context, lead Lead) error {
	return f(ctx, lead)
}

type Config struct {
	Threshold     time.Duration
	UnlockDelay   time.Duration
	FlashDuration time.Duration
	SnapQuiet     time.Duration
	SinkTimeout   time.Duration
	Clock         clockwork.Clock
	Logger        *slog.Logger
	Sink          LeadSink
	// OnTransition runs under the session lock after every transition.
	OnTransition func(Transition)
}

// Session is one gated playback session, from mount to unmount. Every
// event, including timer callbacks, is applied under one lock in arrival
// order.
type Session struct {
	mu       sync.Mutex
	machine  *Machine
	observer *Observer
	snapper  *Snapper
	sched    *Scheduler
	form     *LeadForm
	sink     LeadSink
	log      *slog.Logger
	timeout  time.Duration
	onChange func(Transition)
	closed   bool
}

// NewSession mounts a session on surface. fullscreen may be nil when the
// platform has no fullscreen API; viewport may be nil to disable snapping.
func NewSession(cfg Config, surface Surface, fullscreen Fullscreen, viewport Viewport) (*Session, error) {
	if cfg.Threshold < 0 {
		return nil, ErrNegativeThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SinkTimeout <= 0 {
		cfg.SinkTimeout = defaultSinkTimeout
	}

	s := &Session{
		sink:     cfg.Sink,
		log:      cfg.Logger,
		timeout:  cfg.SinkTimeout,
		onChange: cfg.OnTransition,
	}
	s.sched = NewScheduler(cfg.Clock, &s.mu)
	s.machine = NewMachine(MachineConfig{
		Threshold:     cfg.Threshold,
		UnlockDelay:   cfg.UnlockDelay,
		FlashDuration: cfg.FlashDuration,
		OnTransition:  s.transitioned,
		Logger:        cfg.Logger,
	}, surface, NewContinuity(fullscreen, cfg.Logger), s.sched)
	s.observer = NewObserver(cfg.Threshold, surface, s.machine)
	if viewport != nil {
		s.snapper = NewSnapper(viewport, func() bool { return s.machine.State().OverlayOpen() }, cfg.SnapQuiet, s.sched, cfg.Logger)
	}
	return s, nil
}

func (s *Session) transitioned(t Transition) {
	if t.To == FormVisible && s.form == nil {
		s.form = NewLeadForm()
	}
	if s.onChange != nil {
		s.onChange(t)
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// WasFullscreen reports whether the gate remembers an exited fullscreen.
func (s *Session) WasFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.WasFullscreen()
}

func (s *Session) Threshold() time.Duration {
	return s.machine.Threshold()
}

// TimeUpdate handles a time-update event from the surface.
func (s *Session) TimeUpdate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.observer.TimeUpdate()
	return nil
}

// Seeked handles a seek-completion event from the surface.
func (s *Session) Seeked() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.observer.Seeked()
	return nil
}

// RequestGate handles the explicit "unlock full experience" action.
func (s *Session) RequestGate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return s.machine.RequestGate()
}

// SetField updates one lead form field. The form must be showing and not
// yet submitted.
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	switch s.machine.State() {
	case FormVisible:
		return s.form.SetField(name, value)
	case Hidden:
		return ErrFormNotOpen
	default:
		return ErrAlreadySubmitted
	}
}

// Fields returns the buffered form values, or nil before the form is shown.
func (s *Session) Fields() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return nil
	}
	return s.form.Fields()
}

// Submit validates the form and, when it is complete, starts the unlock and
// hands the lead to the sink. Invalid input returns a *ValidationError and
// leaves the state unchanged.
func (s *Session) Submit() (Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Lead{}, ErrSessionClosed
	}
	switch s.machine.State() {
	case FormVisible:
	case Hidden:
		return Lead{}, ErrFormNotOpen
	default:
		return Lead{}, ErrAlreadySubmitted
	}

	lead, err := s.form.TrySubmit()
	if err != nil {
		return Lead{}, err
	}
	if err := s.machine.SubmitValid(); err != nil {
		return Lead{}, err
	}
	s.deliver(lead)
	return lead, nil
}

func (s *Session) deliver(lead Lead) {
	if s.sink == nil {
		return
	}
	sink, timeout, logger := s.sink, s.timeout, s.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := sink.CaptureLead(ctx, lead); err != nil {
			logger.Error("gate: lead sink failed", "error", err)
		}
	}()
}

// Scrolled records a scroll delta for section snapping.
func (s *Session) Scrolled() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.snapper != nil {
		s.snapper.Scrolled()
	}
	return nil
}

// Pending returns the number of timers that have not fired yet.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Pending()
}

// Close unmounts the session and cancels its pending timers.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.machine.Stop()
	if s.snapper != nil {
		s.snapper.Stop()
	}
	s.sched.Close()
}
