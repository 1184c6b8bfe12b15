//go:build !linux

package buffer

func (b *Buffer) ReadFromDescriptor(fd int) (int, error) {
	return -1, ErrUnsupported
}

func (b *Buffer) WriteToDescriptor(fd int) (int, error) {
	return -1, ErrUnsupported
}
