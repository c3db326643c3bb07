package player

import (
	"sync"
	"time"
)

type CommandKind string

const (
	CommandPause             CommandKind = "pause"
	CommandPlay              CommandKind = "play"
	CommandSeek              CommandKind = "seek"
	CommandExitFullscreen    CommandKind = "exitFullscreen"
	CommandRequestFullscreen CommandKind = "requestFullscreen"
	CommandScrollTo          CommandKind = "scrollTo"
)

// Command is one mutation the browser client must apply to its player or
// page. Time and Top are in seconds and CSS pixels.
type Command struct {
	Kind CommandKind `json:"kind"`
	Time *float64    `json:"time,omitempty"`
	Top  *float64    `json:"top,omitempty"`
}

// Report carries what the client observed. Nil fields are left unchanged.
type Report struct {
	CurrentTime    *float64 `json:"currentTime,omitempty"`
	Paused         *bool    `json:"paused,omitempty"`
	Fullscreen     *bool    `json:"fullscreen,omitempty"`
	ScrollY        *float64 `json:"scrollY,omitempty"`
	ViewportHeight *float64 `json:"viewportHeight,omitempty"`
}

// Mirror is the server's view of the client player.
type Mirror struct {
	CurrentTime    float64 `json:"currentTime"`
	Paused         bool    `json:"paused"`
	Fullscreen     bool    `json:"fullscreen"`
	ScrollY        float64 `json:"scrollY"`
	ViewportHeight float64 `json:"viewportHeight"`
}

// Remote is a playback surface, fullscreen capability and viewport backed
// by a browser client. Mutations update the local mirror and queue a
// Command for the client.
type Remote struct {
	mu        sync.Mutex
	state     Mirror
	commands  []Command
	onCommand func()
}

func NewRemote() *Remote {
	return &Remote{state: Mirror{Paused: true}}
}

// OnCommand registers fn to run after every queued command. fn runs
// without the remote's lock held.
func (r *Remote) OnCommand(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCommand = fn
}

func (r *Remote) Report(rep Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep.CurrentTime != nil && *rep.CurrentTime >= 0 {
		r.state.CurrentTime = *rep.CurrentTime
	}
	if rep.Paused != nil {
		r.state.Paused = *rep.Paused
	}
	if rep.Fullscreen != nil {
		r.state.Fullscreen = *rep.Fullscreen
	}
	if rep.ScrollY != nil {
		r.state.ScrollY = *rep.ScrollY
	}
	if rep.ViewportHeight != nil && *rep.ViewportHeight >= 0 {
		r.state.ViewportHeight = *rep.ViewportHeight
	}
}

func (r *Remote) Mirror() Mirror {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Drain returns the queued commands in issue order and clears the queue.
func (r *Remote) Drain() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.commands
	r.commands = nil
	return out
}

// Pending reports the number of queued commands.
func (r *Remote) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commands)
}

// issue applies mutate under the lock and queues the command it returns,
// if any.
func (r *Remote) issue(mutate func() (Command, bool)) {
	r.mu.Lock()
	c, ok := mutate()
	if ok {
		r.commands = append(r.commands, c)
	}
	notify := r.onCommand
	r.mu.Unlock()

	if ok && notify != nil {
		notify()
	}
}

func (r *Remote) CurrentTime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return seconds(r.state.CurrentTime)
}

func (r *Remote) SetCurrentTime(t time.Duration) {
	r.issue(func() (Command, bool) {
		sec := t.Seconds()
		r.state.CurrentTime = sec
		return Command{Kind: CommandSeek, Time: &sec}, true
	})
}

func (r *Remote) Play() {
	r.issue(func() (Command, bool) {
		if !r.state.Paused {
			return Command{}, false
		}
		r.state.Paused = false
		return Command{Kind: CommandPlay}, true
	})
}

func (r *Remote) Pause() {
	r.issue(func() (Command, bool) {
		if r.state.Paused {
			return Command{}, false
		}
		r.state.Paused = true
		return Command{Kind: CommandPause}, true
	})
}

func (r *Remote) IsFullscreen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Fullscreen
}

func (r *Remote) ExitFullscreen() error {
	r.issue(func() (Command, bool) {
		r.state.Fullscreen = false
		return Command{Kind: CommandExitFullscreen}, true
	})
	return nil
}

func (r *Remote) RequestFullscreen() error {
	r.issue(func() (Command, bool) {
		r.state.Fullscreen = true
		return Command{Kind: CommandRequestFullscreen}, true
	})
	return nil
}

func (r *Remote) ScrollOffset() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ScrollY
}

func (r *Remote) ViewportHeight() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ViewportHeight
}

func (r *Remote) ScrollTo(offset float64) {
	r.issue(func() (Command, bool) {
		r.state.ScrollY = offset
		return Command{Kind: CommandScrollTo, Top: &offset}, true
	})
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
