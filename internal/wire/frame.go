// Package wire implements the framed-message transport of spec.md §6: each
// message is a 4-byte big-endian length prefix followed by an opaque
// payload. It adapts the read/reuse discipline of the teacher's
// internal/buffer package (a reusable, geometrically-grown buffer that
// Init refills from a single Read) to a plain length-prefixed protocol —
// there is no kernel-defined header to parse here, just the length.
package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single frame so that a corrupt or malicious length
// prefix cannot make the daemon try to allocate an unbounded buffer.
const MaxFrameSize = 64 << 20 // 64 MiB

// FrameReader reads length-prefixed frames from an underlying reader,
// reusing its internal buffer across calls the way buffer.InMessage reuses
// its backing slice across successive ReadOp calls in the teacher.
type FrameReader struct {
	r   *bufio.Reader
	buf []byte
}

// NewFrameReader wraps r (typically the daemon's stdin) for framed reads.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// ReadFrame reads and returns the next frame's payload. The returned slice
// is only valid until the next call to ReadFrame; callers that need to
// retain it must copy it.
func (f *FrameReader) ReadFrame() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(f.r, lenBuf[:]); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds maximum of %d", n, MaxFrameSize)
	}

	if cap(f.buf) < int(n) {
		f.buf = make([]byte, n)
	}
	f.buf = f.buf[:n]

	if _, err := io.ReadFull(f.r, f.buf); err != nil {
		return nil, err
	}

	return f.buf, nil
}

// FrameWriter writes length-prefixed frames to an underlying writer.
type FrameWriter struct {
	w io.Writer
}

// NewFrameWriter wraps w (typically the daemon's stdout) for framed
// writes.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame writes payload as a single length-prefixed frame.
func (f *FrameWriter) WriteFrame(payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds maximum of %d", len(payload), MaxFrameSize)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))

	if _, err := f.w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := f.w.Write(payload); err != nil {
		return err
	}
	return nil
}
