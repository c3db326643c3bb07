package gate

import "log/slog"

// Continuity keeps the viewer's fullscreen context across a gate
// interruption. Platform failures are logged and otherwise ignored.
type Continuity struct {
	fs  Fullscreen
	log *slog.Logger
}

func NewContinuity(fs Fullscreen, logger *slog.Logger) *Continuity {
	if fs == nil {
		fs = NoFullscreen{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Continuity{fs: fs, log: logger}
}

func (c *Continuity) IsFullscreen() bool {
	return c.fs.IsFullscreen()
}

// ExitIfFullscreen requests an exit when fullscreen is active and reports
// whether it was.
func (c *Continuity) ExitIfFullscreen() bool {
	if !c.fs.IsFullscreen() {
		return false
	}
	if err := c.fs.ExitFullscreen(); err != nil {
		c.log.Debug("gate: fullscreen exit rejected", "error", err)
	}
	return true
}

// Restore requests fullscreen again when wasFullscreen is set and reports
// whether a request was issued.
func (c *Continuity) Restore(wasFullscreen bool) bool {
	if !wasFullscreen {
		return false
	}
	if err := c.fs.RequestFullscreen(); err != nil {
		c.log.Debug("gate: fullscreen restore rejected", "error", err)
	}
	return true
}
