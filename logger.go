package socketio

import (
	"fmt"
	"io"
	"os"
)

// Logger defines the interface background tasks and transports use to
// report non-fatal problems (malformed frames on a single session, socket
// errors, etc). There is no dedicated external logging dependency here:
// the teacher module itself never reaches for one, so this module keeps
// its own minimal interface rather than introducing one (see DESIGN.md).
type Logger interface {
	// Errorf logs an error message with formatting.
	Errorf(format string, args ...interface{})
	// Debugf logs a low-priority diagnostic message.
	Debugf(format string, args ...interface{})
}

// StdLogger is a simple logger that writes to an io.Writer.
type StdLogger struct {
	writer io.Writer
	debug  bool
}

// Errorf implements Logger.Errorf.
func (l *StdLogger) Errorf(format string, args ...interface{}) {
	if l.writer != nil {
		fmt.Fprintf(l.writer, "ERROR "+format+"\n", args...)
	}
}

// Debugf implements Logger.Debugf. Silent unless debug logging is enabled.
func (l *StdLogger) Debugf(format string, args ...interface{}) {
	if l.writer != nil && l.debug {
		fmt.Fprintf(l.writer, "DEBUG "+format+"\n", args...)
	}
}

// NewStdLogger creates a new StdLogger writing to writer (os.Stderr if nil).
func NewStdLogger(writer io.Writer, debug bool) *StdLogger {
	if writer == nil {
		writer = os.Stderr
	}
	return &StdLogger{writer: writer, debug: debug}
}

// DefaultLogger is the default logger instance, writing errors to os.Stderr
// with debug logging disabled.
var DefaultLogger Logger = NewStdLogger(os.Stderr, false)
