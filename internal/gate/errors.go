package gate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStaleTrigger          = errors.New("gate already left hidden")
	ErrInvalidTransition     = errors.New("invalid gate transition")
	ErrFormNotOpen           = errors.New("lead form is not open")
	ErrAlreadySubmitted      = errors.New("lead form already submitted")
	ErrUnknownField          = errors.New("unknown form field")
	ErrSessionClosed         = errors.New("gate session closed")
	ErrNegativeThreshold     = errors.New("threshold must not be negative")
	ErrFullscreenUnsupported = errors.New("fullscreen not supported")
)

// ValidationError lists the form fields that blocked a submission.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("lead form rejected: %s", strings.Join(parts, "; "))
}
