package gate

import "time"

// Observer turns the surface's time-update and seek-completion events into
// gate triggers.
type Observer struct {
	threshold time.Duration
	surface   Surface
	gate      *Machine
}

func NewObserver(threshold time.Duration, surface Surface, gate *Machine) *Observer {
	return &Observer{threshold: threshold, surface: surface, gate: gate}
}

// TimeUpdate reports whether playback advancing to the current time
// triggered the gate.
func (o *Observer) TimeUpdate() bool {
	if o.surface.CurrentTime() < o.threshold {
		return false
	}
	switch o.gate.State() {
	case Hidden:
		o.surface.Pause()
		return o.gate.Trigger() == nil
	case FormVisible:
		o.surface.Pause()
	}
	return false
}

// Seeked reports whether a seek landing at the current time triggered the
// gate. A seek past the threshold before submission is clamped back to it.
func (o *Observer) Seeked() bool {
	if o.surface.CurrentTime() < o.threshold {
		return false
	}
	switch o.gate.State() {
	case Hidden:
		o.clamp()
		o.surface.Pause()
		return o.gate.Trigger() == nil
	case FormVisible:
		o.clamp()
		o.surface.Pause()
	}
	return false
}

func (o *Observer) clamp() {
	if o.surface.CurrentTime() > o.threshold {
		o.surface.SetCurrentTime(o.threshold)
	}
}
