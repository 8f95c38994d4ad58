package comm

import (
	"io"
	"sync"
)

// Writer sends payloads as frames.
// It's safe for concurrent use.
type Writer struct {
	w    io.Writer
	size int
	buf  []byte
	lock sync.Mutex
}

// NewWriter creates a Writer for payloads of size bytes.
func NewWriter(w io.Writer, size int) *Writer {
	if size <= 0 {
		panic(ErrInvalidSize)
	}
	return &Writer{w: w, size: size}
}

// WritePayload writes a single frame.
func (w *Writer) WritePayload(payload []byte) error {
	if len(payload) != w.size {
		return &SizeError{Expected: w.size, Actual: len(payload)}
	}
	w.lock.Lock()
	defer w.lock.Unlock()
	w.buf = AppendFrame(w.buf[:0], payload)
	_, err := w.w.Write(w.buf)
	return err
}
