package common

import (
	"fmt"
	"net/http"
)

// FlushWriter wraps http.ResponseWriter and flushes every write so data
// reaches the client immediately, required by the streaming transports
// (xhr-multipart, htmlfile). Adapted verbatim in spirit from the teacher's
// transport/server/http/common.FlushWriter.
type FlushWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewFlushWriter constructs a FlushWriter backed by rw.
func NewFlushWriter(rw http.ResponseWriter) *FlushWriter {
	flusher, _ := rw.(http.Flusher)
	return &FlushWriter{w: rw, flusher: flusher}
}

func (fw *FlushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if err != nil {
		return n, err
	}
	if fw.flusher == nil {
		return n, fmt.Errorf("socketio: streaming not supported: %T does not implement http.Flusher", fw.w)
	}
	fw.flusher.Flush()
	return n, nil
}

// Header exposes the underlying ResponseWriter's header map so callers can
// set headers before the first write.
func (fw *FlushWriter) Header() http.Header { return fw.w.Header() }

// WriteHeader forwards to the underlying ResponseWriter.
func (fw *FlushWriter) WriteHeader(statusCode int) { fw.w.WriteHeader(statusCode) }
