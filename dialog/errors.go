package dialog

import (
	"errors"
	"fmt"

	"github.com/sipcore/dialogcore/sip"
)

var (
	// ErrOutsideDialog is returned when a request/response cannot be
	// matched to any known dialog.
	ErrOutsideDialog = errors.New("dialog: call/transaction outside dialog")
	// ErrNoContact is returned building a dialog from a request with no
	// Contact header (spec §4.A requires remote_uri from Contact on the
	// server side).
	ErrNoContact = errors.New("dialog: no Contact header")
	// ErrCanceled is returned from operations aborted by the dialog's
	// cancellation context.
	ErrCanceled = errors.New("dialog: canceled")
	// ErrNotConfirmed is returned by operations whose precondition is
	// state.is_confirmed (spec §4.F: bye, info, reinvite).
	ErrNotConfirmed = errors.New("dialog: not confirmed")
)

// Error is a protocol-level violation surfaced by the core (spec §7):
// bad method in the current state, parse failures while dispatching, etc.
type Error struct {
	Message string
	ID      ID
}

func (e *Error) Error() string {
	return fmt.Sprintf("dialog %s: %s", e.ID, e.Message)
}

// ResponseError wraps a non-2xx final response returned from an in-dialog
// operation (e.g. bye() receiving a non-200).
type ResponseError struct {
	Status sip.StatusCode
	Reason string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("dialog: request failed with %d %s", e.Status, e.Reason)
}
