package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/xy-planning-network/switchback"
)

var pool = &sync.Pool{New: func() any { return new(bytes.Buffer) }}

// A Buffer collects the response to a dispatched request.
//
// Writes land in the innermost capture opened by Push, or in the final body when none is open.
// Captures nest as views and handlers render into each other;
// each Pop hands back what its capture collected.
//
// A Buffer is scoped to a single request and is not safe for concurrent use.
type Buffer struct {
	final    *bytes.Buffer
	stack    []*bytes.Buffer
	header   http.Header
	status   int
	redirect string
}

// New constructs a Buffer.
func New() *Buffer {
	return &Buffer{final: get(), header: make(http.Header)}
}

func get() *bytes.Buffer {
	b := pool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// Push opens a nested capture.
func (b *Buffer) Push() {
	b.stack = append(b.stack, get())
}

// Pop closes the innermost capture and returns what it collected.
// Pop returns "" when no capture is open.
func (b *Buffer) Pop() string {
	if len(b.stack) == 0 {
		return ""
	}

	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	s := top.String()
	pool.Put(top)

	return s
}

// Level returns the number of open captures.
func (b *Buffer) Level() int { return len(b.stack) }

// Write appends p to the innermost capture, or the final body.
func (b *Buffer) Write(p []byte) (int, error) {
	if n := len(b.stack); n > 0 {
		return b.stack[n-1].Write(p)
	}

	return b.final.Write(p)
}

// WriteString appends s to the innermost capture, or the final body.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// Unwind closes every open capture, flushing what each collected into the one enclosing it
// and finally into the body.
func (b *Buffer) Unwind() {
	for len(b.stack) > 0 {
		s := b.Pop()
		b.WriteString(s)
	}
}

// Discard closes every open capture without keeping what they collected.
func (b *Buffer) Discard() {
	for len(b.stack) > 0 {
		b.Pop()
	}
}

// Bytes returns the final body.
func (b *Buffer) Bytes() []byte { return b.final.Bytes() }

// String returns the final body.
func (b *Buffer) String() string { return b.final.String() }

// Header returns the headers written along with the body.
func (b *Buffer) Header() http.Header { return b.header }

// SetStatus sets the status code written along with the body.
func (b *Buffer) SetStatus(code int) { b.status = code }

// WriteHeader sets the status code, letting a Buffer stand in for an http.ResponseWriter.
func (b *Buffer) WriteHeader(code int) { b.SetStatus(code) }

// Status returns the status code set, or 200.
func (b *Buffer) Status() int {
	if b.status == 0 {
		return http.StatusOK
	}

	return b.status
}

// JSON replaces the final body with data encoded as JSON.
func (b *Buffer) JSON(status int, data any) error {
	buf := get()
	defer pool.Put(buf)

	if err := json.NewEncoder(buf).Encode(data); err != nil {
		return fmt.Errorf("%w: encoding json: %s", switchback.ErrNotValid, err)
	}

	b.Discard()
	b.final.Reset()
	b.final.Write(buf.Bytes())
	b.header.Set("Content-Type", "application/json")
	b.status = status

	return nil
}

// Redirect has Flush redirect the client to url with code instead of writing the body.
func (b *Buffer) Redirect(url string, code int) {
	b.redirect = url
	b.status = code
}

// Reset empties the Buffer of everything written to it.
func (b *Buffer) Reset() {
	b.Discard()
	b.final.Reset()
	b.header = make(http.Header)
	b.status = 0
	b.redirect = ""
}

// Flush writes the headers, status and body to w, then releases the Buffer.
//
// Captures still open are unwound into the body first.
func (b *Buffer) Flush(w http.ResponseWriter, r *http.Request) error {
	defer b.release()

	b.Unwind()
	for k, vals := range b.header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}

	if b.redirect != "" {
		code := b.status
		if code < 300 || code > 399 {
			code = http.StatusFound
		}

		http.Redirect(w, r, b.redirect, code)
		return nil
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}

	w.WriteHeader(b.Status())
	_, err := io.Copy(w, b.final)
	return err
}

func (b *Buffer) release() {
	pool.Put(b.final)
	b.final = get()
	b.stack = nil
}
