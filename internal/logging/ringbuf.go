package logging

import "sync"

// RingBuffer is a fixed-size circular buffer holding the tail of the
// syslogger's output for the status listener's recent-log view.
type RingBuffer struct {
	mu   sync.Mutex
	buf  []byte
	size int
	pos  int
	full bool
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		buf:  make([]byte, size),
		size: size,
	}
}

// Write appends data, overwriting the oldest bytes once full.
func (rb *RingBuffer) Write(p []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for _, b := range p {
		rb.buf[rb.pos] = b
		rb.pos = (rb.pos + 1) % rb.size
		if rb.pos == 0 {
			rb.full = true
		}
	}
}

// Tail returns the last n bytes, or everything stored when less than n
// is available.
func (rb *RingBuffer) Tail(n int) []byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	available := rb.pos
	if rb.full {
		available = rb.size
	}
	if n > available {
		n = available
	}
	if n == 0 {
		return nil
	}

	result := make([]byte, n)
	start := rb.pos - n
	if start < 0 {
		start += rb.size
	}
	for i := 0; i < n; i++ {
		result[i] = rb.buf[(start+i)%rb.size]
	}
	return result
}

// Len returns the number of bytes stored.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.full {
		return rb.size
	}
	return rb.pos
}
