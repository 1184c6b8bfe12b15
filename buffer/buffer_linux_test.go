package buffer

import (
	"bytes"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})
	return r, w
}

func TestReadFromDescriptor(t *testing.T) {
	t.Run("fits writable region", func(t *testing.T) {
		r, w := newPipe(t)
		_, err := w.Write([]byte("hello"))
		require.NoError(t, err)

		b := New(64)
		n, err := b.ReadFromDescriptor(int(r.Fd()))
		require.NoError(t, err)

		assert.Equal(t, 5, n)
		assert.Equal(t, "hello", b.String())
		assert.Equal(t, 64, b.Cap(), "no growth expected")
	})

	t.Run("overflows into scratch and grows", func(t *testing.T) {
		r, w := newPipe(t)
		payload := bytes.Repeat([]byte("0123456789"), 400)
		_, err := w.Write(payload)
		require.NoError(t, err)

		b := New(16)
		b.AppendString("head:")
		n, err := b.ReadFromDescriptor(int(r.Fd()))
		require.NoError(t, err)

		assert.Equal(t, len(payload), n)
		assert.Equal(t, "head:"+string(payload), b.String())
		assert.Equal(t, b.Cap(), b.PrependableBytes()+b.ReadableBytes()+b.WritableBytes())
	})

	t.Run("end of stream is zero", func(t *testing.T) {
		r, w := newPipe(t)
		require.NoError(t, w.Close())

		b := New(16)
		n, err := b.ReadFromDescriptor(int(r.Fd()))
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, 0, b.ReadableBytes())
	})

	t.Run("invalid descriptor reports errno", func(t *testing.T) {
		b := New(16)
		n, err := b.ReadFromDescriptor(-1)
		require.Error(t, err)
		assert.Equal(t, -1, n)
		assert.True(t, errors.Is(err, syscall.EBADF))
	})
}

func TestWriteToDescriptor(t *testing.T) {
	r, w := newPipe(t)

	b := New(16)
	b.AppendString("ping")
	n, err := b.WriteToDescriptor(int(w.Fd()))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 0, b.ReadableBytes())

	got := make([]byte, 4)
	_, err = r.Read(got)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(got))

	n, err = b.WriteToDescriptor(int(w.Fd()))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
