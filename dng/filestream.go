package dng

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const fileWindowSize = 64 * 1024

// FileStream is a ByteStream over an io.ReaderAt, reading through a window
// buffer so byte-at-a-time access stays cheap.
type FileStream struct {
	reader io.ReaderAt
	size   uint64
	pos    uint64
	order  binary.ByteOrder

	window      []byte
	windowStart uint64
}

// OpenFile opens a file-backed stream. Close releases the file.
func OpenFile(filename string) (*FileStream, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return NewFileStream(f, stat.Size()), nil
}

// NewFileStream reads size bytes from r.
func NewFileStream(r io.ReaderAt, size int64) *FileStream {
	if size < 0 {
		size = 0
	}
	return &FileStream{
		reader: r,
		size:   uint64(size),
		order:  binary.LittleEndian,
	}
}

// SetByteOrder changes the order used by typed reads.
func (f *FileStream) SetByteOrder(order binary.ByteOrder) {
	f.order = order
}

func (f *FileStream) Length() uint64              { return f.size }
func (f *FileStream) Position() uint64            { return f.pos }
func (f *FileStream) ByteOrder() binary.ByteOrder { return f.order }

func (f *FileStream) SetReadPosition(pos uint64) {
	if pos > f.size {
		pos = f.size
	}
	f.pos = pos
}

func (f *FileStream) Get(p []byte) error {
	if uint64(len(p)) > f.size-f.pos {
		return exhausted(f, len(p))
	}

	if len(p) > fileWindowSize/2 {
		if _, err := f.reader.ReadAt(p, int64(f.pos)); err != nil && err != io.EOF {
			return fmt.Errorf("read %d bytes at %d: %w", len(p), f.pos, err)
		}
		f.pos += uint64(len(p))
		return nil
	}

	if !f.windowCovers(f.pos, len(p)) {
		if err := f.fill(f.pos); err != nil {
			return err
		}
	}

	off := f.pos - f.windowStart
	f.pos += uint64(copy(p, f.window[off:]))
	return nil
}

// Close closes the underlying reader when it is an io.Closer.
func (f *FileStream) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (f *FileStream) windowCovers(pos uint64, n int) bool {
	return pos >= f.windowStart && pos+uint64(n) <= f.windowStart+uint64(len(f.window))
}

func (f *FileStream) fill(pos uint64) error {
	n := uint64(fileWindowSize)
	if f.size-pos < n {
		n = f.size - pos
	}
	if cap(f.window) < fileWindowSize {
		f.window = make([]byte, fileWindowSize)
	}
	f.window = f.window[:n]

	if _, err := f.reader.ReadAt(f.window, int64(pos)); err != nil && err != io.EOF {
		f.window = f.window[:0]
		return fmt.Errorf("read window at %d: %w", pos, err)
	}
	f.windowStart = pos
	return nil
}
