package gate

import "fmt"

// State is the gate overlay state of one playback session.
type State int

const (
	Hidden State = iota
	FormVisible
	Unlocking
	Unlocked
	AlreadyUnlockedFlash
)

var stateNames = [...]string{
	Hidden:               "hidden",
	FormVisible:          "formVisible",
	Unlocking:            "unlocking",
	Unlocked:             "unlocked",
	AlreadyUnlockedFlash: "alreadyUnlockedFlash",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stateNames) {
		return nil, fmt.Errorf("unknown gate state %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown gate state %q", string(b))
}

// OverlayOpen reports whether an overlay covers the playback surface.
func (s State) OverlayOpen() bool {
	switch s {
	case FormVisible, Unlocking, AlreadyUnlockedFlash:
		return true
	case Hidden, Unlocked:
		return false
	}
	return false
}

// Overlay names the overlay shown for the state, or "" when none is.
func (s State) Overlay() string {
	switch s {
	case FormVisible:
		return "form"
	case Unlocking:
		return "unlocking"
	case AlreadyUnlockedFlash:
		return "alreadyUnlocked"
	case Hidden, Unlocked:
		return ""
	}
	return ""
}

// Event is an input to the gate state machine.
type Event string

const (
	EventTrigger       Event = "trigger"
	EventManualGate    Event = "manual_gate"
	EventSubmitValid   Event = "submit_valid"
	EventUnlockElapsed Event = "unlock_elapsed"
	EventFlashElapsed  Event = "flash_elapsed"
)

// Transition records one applied state change.
type Transition struct {
	From  State
	Event Event
	To    State
}

type edge struct {
	from  State
	event Event
}

var transitions = map[edge]State{
	{Hidden, EventTrigger}:                    FormVisible,
	{Hidden, EventManualGate}:                 FormVisible,
	{FormVisible, EventSubmitValid}:           Unlocking,
	{Unlocking, EventUnlockElapsed}:           Unlocked,
	{Unlocked, EventManualGate}:               AlreadyUnlockedFlash,
	{AlreadyUnlockedFlash, EventFlashElapsed}: Unlocked,
}

// next looks up the destination of event from state.
func next(from State, event Event) (State, bool) {
	to, ok := transitions[edge{from, event}]
	return to, ok
}
