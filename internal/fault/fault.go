// Package fault defines the error taxonomy shared by the cart engine, the
// remote client, and the UI layers. Remote-call failures are classified into
// one of a small set of kinds at the engine boundary; raw transport errors
// never reach the view layer.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for presentation purposes.
type Kind int

const (
	// Unknown is the zero value; KindOf returns it for errors that carry
	// no classification.
	Unknown Kind = iota

	// Unauthenticated means no usable credential was available, either
	// locally (no token) or remotely (401). Surfaced as a login prompt.
	Unauthenticated

	// DuplicateItem is the local guard against adding a product that is
	// already in the cart. Surfaced as a warning, never sent to the server.
	DuplicateItem

	// NotFound means a listing or search matched nothing. Surfaced as an
	// empty state, not as an error.
	NotFound

	// RemoteRejected is a 4xx response carrying a server message, which is
	// surfaced to the user verbatim.
	RemoteRejected

	// RemoteUnavailable covers network failures, malformed responses and
	// 5xx responses without a usable message.
	RemoteUnavailable
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case DuplicateItem:
		return "duplicate_item"
	case NotFound:
		return "not_found"
	case RemoteRejected:
		return "remote_rejected"
	case RemoteUnavailable:
		return "remote_unavailable"
	default:
		return "unknown"
	}
}

// Fault is a classified failure with a message fit for display.
type Fault struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, may be nil
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error { return f.Err }

// New returns a Fault with no underlying cause.
func New(kind Kind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

// Wrap attaches a classified, displayable message to an underlying error.
func Wrap(kind Kind, message string, err error) *Fault {
	return &Fault{Kind: kind, Message: message, Err: err}
}

// KindOf returns the classification of err, or Unknown if err carries none.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return Unknown
}

// MessageOf returns the displayable message of err. Unclassified errors fall
// back to the generic connectivity warning so transport detail never leaks
// into the UI.
func MessageOf(err error) string {
	var f *Fault
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return GenericUnavailableMessage
}

// Ensure returns err unchanged if it is already classified, and otherwise
// wraps it as RemoteUnavailable. Engine boundaries call this so every error
// leaving them carries a Kind.
func Ensure(err error) error {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return err
	}
	return Wrap(RemoteUnavailable, GenericUnavailableMessage, err)
}

// GenericUnavailableMessage mirrors the connectivity warning the original
// storefront shows when the backend cannot be reached or returns garbage.
const GenericUnavailableMessage = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."
