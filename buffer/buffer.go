// Package buffer implements a growable byte buffer split into prependable,
// readable and writable regions, suited to non-blocking descriptor I/O.
//
//	+-------------------+------------------+------------------+
//	| prependable bytes |  readable bytes  |  writable bytes  |
//	+-------------------+------------------+------------------+
//	0      <=       readPos     <=     writePos     <=     len(buf)
//
// A Buffer is owned by a single goroutine. It performs no locking; callers
// that share one must serialise every method call themselves.
package buffer

import (
	"errors"
	"fmt"
)

// DefaultSize is the initial storage size used when New is given a
// non-positive size.
const DefaultSize = 1024

// scratchSize is the size of the overflow segment used by ReadFromDescriptor.
const scratchSize = 64 * 1024

// ErrUnsupported is returned by the descriptor operations on platforms
// other than Linux.
var ErrUnsupported = errors.New("buffer: descriptor I/O not supported on this platform")

type Buffer struct {
	buf      []byte
	readPos  int
	writePos int
}

// New returns a Buffer with size bytes of writable storage.
func New(size int) *Buffer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Buffer{buf: make([]byte, size)}
}

func (b *Buffer) WritableBytes() int {
	return len(b.buf) - b.writePos
}

func (b *Buffer) ReadableBytes() int {
	return b.writePos - b.readPos
}

func (b *Buffer) PrependableBytes() int {
	return b.readPos
}

// Len is the number of readable bytes.
func (b *Buffer) Len() int { return b.ReadableBytes() }

// Cap is the total storage size.
func (b *Buffer) Cap() int { return len(b.buf) }

// Peek returns the readable region without consuming it. The slice aliases
// the buffer storage and is only valid until the next mutating call.
func (b *Buffer) Peek() []byte {
	return b.buf[b.readPos:b.writePos]
}

// BeginWrite returns the writable region. Bytes placed there become readable
// after HasWritten.
func (b *Buffer) BeginWrite() []byte {
	return b.buf[b.writePos:]
}

// HasWritten marks n bytes of the writable region as readable.
func (b *Buffer) HasWritten(n int) {
	if n < 0 || n > b.WritableBytes() {
		panic(fmt.Sprintf("buffer: HasWritten(%d) exceeds writable bytes %d", n, b.WritableBytes()))
	}
	b.writePos += n
}

// EnsureWritable guarantees WritableBytes() >= n. Readable bytes are kept in
// order; their position in the storage may change.
func (b *Buffer) EnsureWritable(n int) {
	if b.WritableBytes() < n {
		b.makeSpace(n)
	}
}

func (b *Buffer) makeSpace(n int) {
	if b.WritableBytes()+b.PrependableBytes() < n {
		grown := make([]byte, b.writePos+n+1)
		copy(grown, b.buf[:b.writePos])
		b.buf = grown
		return
	}
	readable := b.ReadableBytes()
	copy(b.buf, b.buf[b.readPos:b.writePos])
	b.readPos = 0
	b.writePos = readable
}

// Append copies p into the writable region, growing the storage if needed.
func (b *Buffer) Append(p []byte) {
	b.EnsureWritable(len(p))
	b.writePos += copy(b.buf[b.writePos:], p)
}

func (b *Buffer) AppendString(s string) {
	b.EnsureWritable(len(s))
	b.writePos += copy(b.buf[b.writePos:], s)
}

// Write implements io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

// WriteString implements io.StringWriter. It never fails.
func (b *Buffer) WriteString(s string) (int, error) {
	b.AppendString(s)
	return len(s), nil
}

// WriteByte implements io.ByteWriter. It never fails.
func (b *Buffer) WriteByte(c byte) error {
	b.EnsureWritable(1)
	b.buf[b.writePos] = c
	b.writePos++
	return nil
}

// Retrieve consumes n readable bytes. It panics if n exceeds ReadableBytes.
func (b *Buffer) Retrieve(n int) {
	if n < 0 || n > b.ReadableBytes() {
		panic(fmt.Sprintf("buffer: Retrieve(%d) exceeds readable bytes %d", n, b.ReadableBytes()))
	}
	b.readPos += n
}

// RetrieveUntil consumes readable bytes up to the storage index end, which
// must lie inside the readable region.
func (b *Buffer) RetrieveUntil(end int) {
	if end < b.readPos || end > b.writePos {
		panic(fmt.Sprintf("buffer: RetrieveUntil(%d) outside readable region [%d,%d]", end, b.readPos, b.writePos))
	}
	b.Retrieve(end - b.readPos)
}

// RetrieveAll zeroes the storage and resets both positions.
func (b *Buffer) RetrieveAll() {
	clear(b.buf)
	b.readPos = 0
	b.writePos = 0
}

// RetrieveAllString returns a copy of the readable bytes and resets the
// buffer.
func (b *Buffer) RetrieveAllString() string {
	s := string(b.Peek())
	b.RetrieveAll()
	return s
}

// String returns the readable bytes without consuming them.
func (b *Buffer) String() string {
	if b == nil {
		return "<nil>"
	}
	return string(b.Peek())
}
