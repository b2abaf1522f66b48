package pty

// RingBuffer keeps the last size bytes written to it
type RingBuffer struct {
	data  []byte
	size  int
	write int
	full  bool
}

// NewRingBuffer creates a new ring buffer with the given size
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = 1
	}
	return &RingBuffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write appends p, overwriting the oldest bytes once the buffer is full
func (rb *RingBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= rb.size {
		copy(rb.data, p[n-rb.size:])
		rb.write = 0
		rb.full = true
		return n, nil
	}

	c := copy(rb.data[rb.write:], p)
	if c < n {
		copy(rb.data, p[c:])
	}
	if rb.write+n >= rb.size {
		rb.full = true
	}
	rb.write = (rb.write + n) % rb.size
	return n, nil
}

// Len returns the number of buffered bytes
func (rb *RingBuffer) Len() int {
	if rb.full {
		return rb.size
	}
	return rb.write
}

// Bytes returns the buffered bytes from oldest to newest
func (rb *RingBuffer) Bytes() []byte {
	if !rb.full {
		return append([]byte(nil), rb.data[:rb.write]...)
	}
	out := make([]byte, 0, rb.size)
	out = append(out, rb.data[rb.write:]...)
	return append(out, rb.data[:rb.write]...)
}

func (rb *RingBuffer) String() string {
	return string(rb.Bytes())
}

// Reset discards the buffered bytes
func (rb *RingBuffer) Reset() {
	rb.write = 0
	rb.full = false
}
