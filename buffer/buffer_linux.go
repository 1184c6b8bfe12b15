package buffer

import (
	"sync"

	"golang.org/x/sys/unix"
)

var scratchPool = sync.Pool{
	New: func() interface{} {
		return new([scratchSize]byte)
	},
}

// ReadFromDescriptor performs a single scatter read from fd. The first
// segment is the writable region, the second a 64 KiB scratch area whose
// contents are appended (growing the storage) when the read overflows the
// writable region, so one call never loses data.
//
// It returns the number of bytes read. End of stream is reported as 0 with a
// nil error. On failure it returns -1 and the syscall.Errno; EAGAIN on a
// non-blocking descriptor is returned as-is for the caller to interpret.
func (b *Buffer) ReadFromDescriptor(fd int) (int, error) {
	scratch := scratchPool.Get().(*[scratchSize]byte)
	defer scratchPool.Put(scratch)

	writable := b.WritableBytes()
	n, err := unix.Readv(fd, [][]byte{b.buf[b.writePos:], scratch[:]})
	if err != nil {
		return -1, err
	}
	if n <= writable {
		b.writePos += n
		return n, nil
	}
	b.writePos = len(b.buf)
	b.Append(scratch[:n-writable])
	return n, nil
}

// WriteToDescriptor writes the readable region to fd with one write(2) and
// consumes the bytes actually written. On failure it returns -1 and the
// syscall.Errno.
func (b *Buffer) WriteToDescriptor(fd int) (int, error) {
	if b.ReadableBytes() == 0 {
		return 0, nil
	}
	n, err := unix.Write(fd, b.Peek())
	if err != nil {
		return -1, err
	}
	b.Retrieve(n)
	return n, nil
}
