// Package errs implements the error taxonomy of spec.md §7: each of the
// six error kinds is a concrete type carrying the structured presentation
// fields (short/medium/long user messages, actionability, debug detail)
// that Initialize failures and request-handler failures must report, and
// each is classified through github.com/containerd/errdefs (the kind-based
// error classification library used by moby/moby) rather than by sentinel
// comparison, so that a caller can ask "is this retryable/actionable" by
// kind without a type switch over this package's concrete types.
package errs

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// Structured is the common shape of every taxonomy member: a short
// machine-log-friendly message, a medium one-line message suitable for a
// status bar, a long message suitable for a dialog, a debug payload (stack
// trace or low-level cause text), and whether the user can do anything
// about it (e.g. "check your network connection" vs "file a bug").
type Structured struct {
	Short      string
	Medium     string
	Long       string
	Debug      string
	Actionable bool
	cause      error
}

func (s *Structured) Error() string  { return s.Medium }
func (s *Structured) Unwrap() error  { return s.cause }
func (s *Structured) Cause() error   { return s.cause }
func (s *Structured) String() string { return s.Medium }

// Detail walks err's Unwrap chain looking for a *Structured (embedded in
// every member of this package's taxonomy) and returns a copy of it. It
// is how a transport layer turns any error this package produced back
// into the presentation fields spec.md §4.5/§7 calls for, without a type
// switch over every concrete taxonomy member.
func Detail(err error) (Structured, bool) {
	for err != nil {
		if s, ok := err.(interface{ structuredDetail() Structured }); ok {
			return s.structuredDetail(), true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return Structured{}, false
		}
		err = u.Unwrap()
	}
	return Structured{}, false
}

func (s *Structured) structuredDetail() Structured { return *s }

// InitLoadFailure corresponds to spec.md §7.1: the saved-state loader
// failed during initialize.
type InitLoadFailure struct{ Structured }

// NewInitLoadFailure wraps cause as an InitLoadFailure, classified as
// errdefs.Unavailable — the loader failing is, from the daemon's point of
// view, a dependency that did not come up, and may succeed on retry.
func NewInitLoadFailure(cause error, short, long string) error {
	e := &InitLoadFailure{Structured{
		Short:      short,
		Medium:     fmt.Sprintf("Failed to load saved state: %s", short),
		Long:       long,
		Debug:      fmt.Sprintf("%+v", cause),
		Actionable: true,
		cause:      cause,
	}}
	return errdefs.Unavailable(e)
}

// InitUncaught corresponds to spec.md §7.2: any uncaught exception during
// initialize, classified as errdefs.Unknown.
type InitUncaught struct{ Structured }

func NewInitUncaught(cause error) error {
	e := &InitUncaught{Structured{
		Short:      "internal error during initialize",
		Medium:     fmt.Sprintf("Failed to initialize: %v", cause),
		Long:       "The daemon hit an unexpected internal error while starting up. This is a bug; please file a report.",
		Debug:      fmt.Sprintf("%+v", cause),
		Actionable: false,
		cause:      cause,
	}}
	return errdefs.Unknown(e)
}

// WrongState corresponds to spec.md §7.3 and §4.4's state table: a message
// was received in a state that does not accept it, classified as
// errdefs.FailedPrecondition.
type WrongState struct {
	Structured
	State   string
	Message string
}

func NewWrongState(state, message string) error {
	e := &WrongState{
		Structured: Structured{
			Short:      "not yet initialized",
			Medium:     fmt.Sprintf("%s is not valid in state %s", message, state),
			Long:       fmt.Sprintf("Received %q while the daemon was in state %q; it must be Initialized first.", message, state),
			Actionable: true,
		},
		State:   state,
		Message: message,
	}
	if state == "Initializing" {
		e.Structured.Short = "not yet initialized"
	} else if state == "Initialized" {
		e.Structured.Short = "already initialized"
		e.Structured.Long = fmt.Sprintf("Received %q while the daemon was already in state %q.", message, state)
	}
	return errdefs.FailedPrecondition(e)
}

// HandlerUncaught corresponds to spec.md §7.4: an exception while
// processing an accepted request. The daemon stays up; the response
// carries Debug as the stack. Classified as errdefs.Unknown.
type HandlerUncaught struct{ Structured }

func NewHandlerUncaught(requestTag string, cause error) error {
	e := &HandlerUncaught{Structured{
		Short:      "internal error",
		Medium:     fmt.Sprintf("handling %s: %v", requestTag, cause),
		Long:       fmt.Sprintf("An internal error occurred while handling a %s request. The daemon remains running.", requestTag),
		Debug:      fmt.Sprintf("%+v", cause),
		Actionable: false,
		cause:      cause,
	}}
	return errdefs.Unknown(e)
}

// BacklogFailure corresponds to spec.md §7.5: an exception while
// processing one changed file. It is logged and swallowed by the
// Change-Backlog Processor (spec.md §4.3); this type exists so the log
// line is structured the same way every other error in the daemon is.
type BacklogFailure struct {
	Structured
	Path string
}

func NewBacklogFailure(path string, cause error) error {
	e := &BacklogFailure{
		Structured: Structured{
			Short:      "failed to process a changed file",
			Medium:     fmt.Sprintf("processing %s: %v", path, cause),
			Debug:      fmt.Sprintf("%+v", cause),
			Actionable: false,
			cause:      cause,
		},
		Path: path,
	}
	return errdefs.Unknown(e)
}

// TransportFailure corresponds to spec.md §7.6: a read/write on the framed
// pipes failed. The message queue is closed and the loop terminates.
// Classified as errdefs.Unavailable.
type TransportFailure struct{ Structured }

func NewTransportFailure(cause error) error {
	e := &TransportFailure{Structured{
		Short:      "transport failure",
		Medium:     fmt.Sprintf("transport failure: %v", cause),
		Long:       "The connection to the editor was lost. The daemon is shutting down.",
		Debug:      fmt.Sprintf("%+v", cause),
		Actionable: false,
		cause:      cause,
	}}
	return errdefs.Unavailable(e)
}

// IsWrongState reports whether err (or something it wraps) is a
// WrongState error, per spec.md §8 P6.
func IsWrongState(err error) bool { return errdefs.IsFailedPrecondition(err) }

// IsTransportFailure reports whether err (or something it wraps) is a
// TransportFailure error.
func IsTransportFailure(err error) bool {
	if !errdefs.IsUnavailable(err) {
		return false
	}
	var target *TransportFailure
	return asStructured(err, &target)
}

func asStructured(err error, target interface{}) bool {
	switch t := target.(type) {
	case **TransportFailure:
		for err != nil {
			if v, ok := err.(*TransportFailure); ok {
				*t = v
				return true
			}
			u, ok := err.(interface{ Unwrap() error })
			if !ok {
				return false
			}
			err = u.Unwrap()
		}
	}
	return false
}
