package report

import (
	"io"
	"sync"
)

// Sink receives frames as they are produced.
type Sink interface {
	Send(f Frame) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(f Frame) error

// Send calls fn(f).
func (fn SinkFunc) Send(f Frame) error {
	return fn(f)
}

// WriterSink writes the raw report bytes of each frame to an io.Writer,
// such as a /dev/hidg device.
type WriterSink struct {
	io.Writer
}

// Send writes the encoded frame.
func (w WriterSink) Send(f Frame) error {
	_, err := w.Write(f.Bytes())
	return err
}

// Buffer collects frames in memory.
type Buffer struct {
	mu     sync.Mutex
	frames []Frame
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Send appends f.
func (b *Buffer) Send(f Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, f)
	return nil
}

// Frames returns a copy of the collected frames.
func (b *Buffer) Frames() []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Frame, len(b.frames))
	copy(out, b.frames)
	return out
}

// Strings returns the collected frames rendered with Frame.String.
func (b *Buffer) Strings() []string {
	frames := b.Frames()
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.String()
	}
	return out
}

// Len returns the number of collected frames.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// Reset discards the collected frames.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = nil
}

// Multi sends every frame to each sink in order. The first error is
// returned after all sinks have been tried.
type Multi []Sink

// Send fans f out to every sink.
func (m Multi) Send(f Frame) error {
	var first error
	for _, s := range m {
		if err := s.Send(f); err != nil && first == nil {
			first = err
		}
	}
	return first
}
