package socketio

import (
	"errors"
	"fmt"
)

// DecodeError is raised by the codec on any malformed frame or payload
// (spec.md §7). It carries the raw bytes that failed to decode for
// diagnostics.
type DecodeError struct {
	Reason string
	Raw    []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("socketio: decode error: %s: %q", e.Reason, string(e.Raw))
}

func newDecodeError(reason string, raw []byte) *DecodeError {
	return &DecodeError{Reason: reason, Raw: append([]byte(nil), raw...)}
}

// IsDecodeError reports whether err is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// EncodeError is raised when emit/send is passed a value that neither
// encodes to JSON nor is a byte string (spec.md §7).
type EncodeError struct {
	Value interface{}
	Cause error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("socketio: cannot encode value of type %T: %v", e.Value, e.Cause)
}

func (e *EncodeError) Unwrap() error { return e.Cause }

// IsEncodeError reports whether err is or wraps an EncodeError.
func IsEncodeError(err error) bool {
	var target *EncodeError
	return errors.As(err, &target)
}

// SessionClosed is raised by put_*/get_* operations on a session that is no
// longer NEW or CONNECTED (spec.md §7).
type SessionClosed struct {
	SessionId string
}

func (e *SessionClosed) Error() string {
	return fmt.Sprintf("socketio: session %q is closed", e.SessionId)
}

// IsSessionClosed reports whether err is or wraps a SessionClosed.
func IsSessionClosed(err error) bool {
	var target *SessionClosed
	return errors.As(err, &target)
}

// TransportError wraps a socket-level I/O failure observed by a transport.
// Observing one always triggers Session.Kill (spec.md §7).
type TransportError struct {
	Transport string
	Cause     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("socketio: %s transport error: %v", e.Transport, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// IsTransportError reports whether err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// ErrEmpty is returned by blocking queue gets whose deadline elapsed before
// a message arrived (spec.md §4.2's "signals Empty").
var ErrEmpty = errors.New("socketio: queue empty")
