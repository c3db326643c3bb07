package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/canvasspace/canvasaem/internal/auth"
	"github.com/canvasspace/canvasaem/internal/gate"
	"github.com/canvasspace/canvasaem/internal/lead"
	"github.com/canvasspace/canvasaem/internal/metrics"
	"github.com/canvasspace/canvasaem/internal/player"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultThreshold = 10 * time.Second
	DefaultTTL       = 30 * time.Minute
	MaxThreshold     = 10 * time.Minute
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrInvalidThreshold = errors.New("threshold out of range")
)

// Capturer stores an accepted lead submission.
type Capturer interface {
	Capture(ctx context.Context, c lead.Capture) (*lead.Lead, error)
}

type Config struct {
	Secret        string
	TokenTTL      time.Duration
	// Threshold is the default preview length; nil means DefaultThreshold.
	Threshold     *time.Duration
	UnlockDelay   time.Duration
	FlashDuration time.Duration
	SnapQuiet     time.Duration
	TTL           time.Duration
	Clock         clockwork.Clock
	Capturer      Capturer
}

// CreateOptions describe the client mounting a session.
type CreateOptions struct {
	IP                  string
	UserAgent           string
	FullscreenSupported bool
	// Threshold overrides the hub default when set. Zero gates on the
	// first playback report.
	Threshold *time.Duration
}

type Created struct {
	ID        string
	Token     string
	Threshold time.Duration
	State     gate.State
}

// Hub owns every mounted gate session of this process.
type Hub struct {
	cfg       Config
	clock     clockwork.Clock
	threshold time.Duration

	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewHub(cfg Config) *Hub {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = auth.SessionTokenDuration
	}
	threshold := DefaultThreshold
	if cfg.Threshold != nil {
		threshold = *cfg.Threshold
	}
	return &Hub{
		cfg:       cfg,
		clock:     cfg.Clock,
		threshold: threshold,
		sessions:  make(map[string]*entry),
	}
}

// Create mounts a new gate session and issues its token.
func (h *Hub) Create(opts CreateOptions) (*Created, error) {
	threshold := h.threshold
	if opts.Threshold != nil {
		if *opts.Threshold < 0 || *opts.Threshold > MaxThreshold {
			return nil, ErrInvalidThreshold
		}
		threshold = *opts.Threshold
	}

	id := uuid.NewString()
	token, err := auth.IssueSessionToken(h.cfg.Secret, id, h.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	e := &entry{
		id:     id,
		remote: player.NewRemote(),
		subs:   make(map[*subscriber]struct{}),
		done:   make(chan struct{}),
	}
	e.touch(h.clock.Now())

	var fullscreen gate.Fullscreen = gate.NoFullscreen{}
	if opts.FullscreenSupported {
		fullscreen = e.remote
	}

	logger := slog.Default().With("session_id", id)
	g, err := gate.NewSession(gate.Config{
		Threshold:     threshold,
		UnlockDelay:   h.cfg.UnlockDelay,
		FlashDuration: h.cfg.FlashDuration,
		SnapQuiet:     h.cfg.SnapQuiet,
		Clock:         h.clock,
		Logger:        logger,
		Sink:          h.sinkFor(id, opts),
		OnTransition: func(t gate.Transition) {
			metrics.RecordTransition(t.From.String(), string(t.Event), t.To.String())
			e.publish()
		},
	}, e.remote, fullscreen, e.remote)
	if err != nil {
		return nil, fmt.Errorf("mount gate session: %w", err)
	}
	e.gate = g
	e.remote.OnCommand(e.publish)

	h.mu.Lock()
	h.sessions[id] = e
	h.mu.Unlock()

	metrics.SessionOpened()
	logger.Info("session: mounted", "threshold", threshold, "fullscreen", opts.FullscreenSupported)

	return &Created{ID: id, Token: token, Threshold: threshold, State: g.State()}, nil
}

func (h *Hub) sinkFor(id string, opts CreateOptions) gate.LeadSink {
	if h.cfg.Capturer == nil {
		return nil
	}
	capturer := h.cfg.Capturer
	return gate.LeadSinkFunc(func(ctx context.Context, l gate.Lead) error {
		_, err := capturer.Capture(ctx, lead.Capture{
			Lead:      l,
			SessionID: id,
			IP:        opts.IP,
			UserAgent: opts.UserAgent,
		})
		return err
	})
}

// lookup returns the live session and marks it as seen.
func (h *Hub) lookup(id string) (*entry, error) {
	h.mu.RLock()
	e, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	e.touch(h.clock.Now())
	return e, nil
}

// Close unmounts one session. reason is recorded in metrics.
func (h *Hub) Close(id, reason string) error {
	h.mu.Lock()
	e, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	h.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	e.close()
	metrics.SessionClosed(reason)
	slog.Info("session: unmounted", "session_id", id, "reason", reason)
	return nil
}

// Sweep unmounts sessions not seen for longer than the TTL and returns
// how many it closed.
func (h *Hub) Sweep(now time.Time) int {
	cutoff := now.Add(-h.cfg.TTL)

	h.mu.Lock()
	var idle []*entry
	for id, e := range h.sessions {
		if e.seen().Before(cutoff) {
			idle = append(idle, e)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, e := range idle {
		e.close()
		metrics.SessionClosed("idle")
	}
	if len(idle) > 0 {
		slog.Info("session: swept idle sessions", "count", len(idle))
	}
	return len(idle)
}

// CloseAll unmounts every session, cancelling all pending gate timers.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := h.sessions
	h.sessions = make(map[string]*entry)
	h.mu.Unlock()

	for _, e := range all {
		e.close()
		metrics.SessionClosed("shutdown")
	}
	if len(all) > 0 {
		slog.Info("session: closed all sessions", "count", len(all))
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// StartSweepLoop runs Sweep every interval until ctx is done.
func StartSweepLoop(ctx context.Context, h *Hub, interval time.Duration) {
	go func() {
		ticker := h.clock.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.Chan():
				h.Sweep(now)
			}
		}
	}()
}

type entry struct {
	id       string
	gate     *gate.Session
	remote   *player.Remote
	lastSeen atomic.Int64

	subsMu sync.Mutex
	subs   map[*subscriber]struct{}
	done   chan struct{}
	closed bool
}

func (e *entry) touch(now time.Time) {
	e.lastSeen.Store(now.UnixNano())
}

func (e *entry) seen() time.Time {
	return time.Unix(0, e.lastSeen.Load())
}

func (e *entry) close() {
	e.gate.Close()
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.done)
	}
}

// Snapshot is what a client needs to render the gate and drive its player.
type Snapshot struct {
	ID       string            `json:"id"`
	State    gate.State        `json:"state"`
	Overlay  string            `json:"overlay,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Commands []player.Command  `json:"commands"`
	Player   player.Mirror     `json:"player"`
}

// snapshot drains the queued player commands; each command is handed to
// exactly one reader.
func (e *entry) snapshot() Snapshot {
	state := e.gate.State()
	commands := e.remote.Drain()
	if commands == nil {
		commands = []player.Command{}
	}
	return Snapshot{
		ID:       e.id,
		State:    state,
		Overlay:  state.Overlay(),
		Fields:   e.gate.Fields(),
		Commands: commands,
		Player:   e.remote.Mirror(),
	}
}
