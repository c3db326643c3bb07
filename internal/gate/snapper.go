package gate

import (
	"log/slog"
	"time"
)

const DefaultSnapQuiet = 100 * time.Millisecond

// Snapper snaps the page to the hero or info section once scrolling has
// been quiet for a while. It stays still while a gate overlay is open.
type Snapper struct {
	viewport Viewport
	overlay  func() bool
	quiet    time.Duration
	sched    *Scheduler
	pending  *Task
	log      *slog.Logger
}

func NewSnapper(viewport Viewport, overlayOpen func() bool, quiet time.Duration, sched *Scheduler, logger *slog.Logger) *Snapper {
	if quiet <= 0 {
		quiet = DefaultSnapQuiet
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Snapper{
		viewport: viewport,
		overlay:  overlayOpen,
		quiet:    quiet,
		sched:    sched,
		log:      logger,
	}
}

// Scrolled records a scroll delta and restarts the quiet period.
func (s *Snapper) Scrolled() {
	s.sched.Cancel(s.pending)
	s.pending = s.sched.After(s.quiet, s.settle)
}

func (s *Snapper) Stop() {
	s.sched.Cancel(s.pending)
	s.pending = nil
}

func (s *Snapper) settle() {
	s.pending = nil
	if s.overlay != nil && s.overlay() {
		s.log.Debug("gate: snap suppressed by open overlay")
		return
	}
	height := s.viewport.ViewportHeight()
	if height <= 0 {
		return
	}
	offset := s.viewport.ScrollOffset()
	target := SnapTarget(offset, height)
	if offset == target {
		return
	}
	s.viewport.ScrollTo(target)
}

// SnapTarget returns the section boundary nearest to offset in a stack of
// two sections, each height tall.
func SnapTarget(offset, height float64) float64 {
	if offset < height/2 {
		return 0
	}
	return height
}
