package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter wraps http.ResponseWriter to track the response and
// intercept error statuses before they reach the client.
type ResponseWriter struct {
	http.ResponseWriter
	intercept   func(status int) bool
	beforeWrite []func()
	status      int
	intercepted int
	size        int64
	written     bool
	mu          sync.Mutex
}

// NewResponseWriter creates a new ResponseWriter.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// OnBeforeWrite registers a hook to run before the first write.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.beforeWrite = append(w.beforeWrite, fn)
}

// Intercept makes WriteHeader swallow any status for which fn returns
// true. The status is kept for Intercepted and the body is discarded.
func (w *ResponseWriter) Intercept(fn func(status int) bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.intercept = fn
}

// Intercepted returns the swallowed status, or 0.
func (w *ResponseWriter) Intercepted() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.intercepted
}

// Reset drops the interceptor and any swallowed status so a new response
// can be written. It has no effect on a response already sent.
func (w *ResponseWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.intercept = nil
	w.intercepted = 0
	if !w.written {
		w.status = http.StatusOK
	}
}

// WriteHeader sends an HTTP response header with the provided status code.
func (w *ResponseWriter) WriteHeader(code int) {
	w.mu.Lock()
	if w.written || w.intercepted != 0 {
		w.mu.Unlock()
		return
	}
	if w.intercept != nil && w.intercept(code) {
		w.intercepted = code
		w.mu.Unlock()
		return
	}
	w.written = true
	w.status = code

	hooks := w.beforeWrite
	w.beforeWrite = nil
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	w.ResponseWriter.WriteHeader(code)
}

// Write writes the data to the connection as part of an HTTP reply.
// Writes after an intercepted status are discarded.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	intercepted := w.intercepted != 0
	written := w.written
	w.mu.Unlock()

	if intercepted {
		return len(b), nil
	}
	if !written {
		w.WriteHeader(http.StatusOK)
		if w.Intercepted() != 0 {
			return len(b), nil
		}
	}

	n, err := w.ResponseWriter.Write(b)
	w.mu.Lock()
	w.size += int64(n)
	w.mu.Unlock()
	return n, err
}

// Status returns the HTTP status code of the response.
func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Size returns the number of bytes written to the response body.
func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Written returns true if the response has been written.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Flush implements the http.Flusher interface.
func (w *ResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack implements the http.Hijacker interface.
func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Unwrap returns the underlying ResponseWriter.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
