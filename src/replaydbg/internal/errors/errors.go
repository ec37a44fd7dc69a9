// Package errors defines the service's error taxonomy: protocol errors are
// answered on the wire and leave session state unchanged, resolution errors
// are negative replies to restart/checkpoint lookups, and resource errors
// are fatal because partial replay state cannot be trusted.
package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// ErrConnectionExists reports an attempt to attach a second debugger
	// connection to a server that already has one.
	ErrConnectionExists = New("a debugger connection already exists")
	// ErrNoConnection reports a request path that needs an attached
	// debugger when none is attached.
	ErrNoConnection = New("no debugger connection attached")
	// ErrUnsupportedRequest reports a decoded request the dispatcher does
	// not recognize.
	ErrUnsupportedRequest = New("unsupported debugger request")
	// ErrDiversionInactive reports a diversion dispatch with no live
	// diversion.
	ErrDiversionInactive = New("no active diversion")
	// ErrDetached is returned by connection reads once the client has
	// detached.
	ErrDetached = New("debugger detached")
)

// IsProtocol reports whether the error is answerable as a protocol-level
// negative reply, keeping the connection open and session state unchanged.
func IsProtocol(e error) bool {
	return stderr.Is(e, ErrUnsupportedRequest) || stderr.Is(e, ErrDiversionInactive)
}
