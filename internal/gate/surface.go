package gate

import "time"

// Surface is the playback capability the gate drives.
type Surface interface {
	CurrentTime() time.Duration
	SetCurrentTime(t time.Duration)
	Play()
	Pause()
}

// Fullscreen is the platform fullscreen capability for the playback surface.
// Exit and request are best effort; a nil error does not mean the platform
// has completed the change.
type Fullscreen interface {
	IsFullscreen() bool
	ExitFullscreen() error
	RequestFullscreen() error
}

// Viewport is the scrollable page holding the hero and info sections.
type Viewport interface {
	ScrollOffset() float64
	ViewportHeight() float64
	ScrollTo(offset float64)
}

// NoFullscreen is the Fullscreen of platforms without a fullscreen API.
type NoFullscreen struct{}

func (NoFullscreen) IsFullscreen() bool       { return false }
func (NoFullscreen) ExitFullscreen() error    { return ErrFullscreenUnsupported }
func (NoFullscreen) RequestFullscreen() error { return ErrFullscreenUnsupported }
