package socketio

import (
	"errors"
	"fmt"
)

// UnauthorizedError is returned by a handshake authorization hook to reject
// a connection before a session is created. Packet turns it into an Error
// packet carrying Reason "unauthorized" (spec.md §3's Reason table). The
// transports in this module do not check for it; writing that packet and
// closing the connection is up to the code that fronts the handshake.
type UnauthorizedError struct {
	// Advice is an optional Advice code (e.g. "reconnect") to attach to the
	// resulting Error packet; empty means no advice.
	Advice string
	// Body carries a transport-specific detail message, if any.
	Body []byte
}

// Error implements the error interface.
func (e *UnauthorizedError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("unauthorized: %s", string(e.Body))
	}
	return "unauthorized"
}

// NewUnauthorizedError constructs a new UnauthorizedError.
func NewUnauthorizedError(advice string, body []byte) *UnauthorizedError {
	return &UnauthorizedError{Advice: advice, Body: body}
}

// IsUnauthorized returns true if err is or wraps an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// Packet renders the rejection as the wire Error packet a transport should
// write back to the client before closing the connection.
func (e *UnauthorizedError) Packet() *Packet {
	return ErrorPacket("unauthorized", e.Advice)
}
