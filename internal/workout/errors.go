package workout

import (
	"errors"
	"fmt"
)

// ValidationError reports user input that cannot be saved. The operation
// that produced it leaves all session state intact.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ErrUnknownConfirmation is returned when a delete confirmation token does
// not match any pending request (already confirmed, cancelled, or never
// issued).
var ErrUnknownConfirmation = errors.New("unknown confirmation token")

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("session closed")
