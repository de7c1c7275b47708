package dng

import (
	"encoding/binary"
	"io"
	"math"
	"strconv"

	"github.com/weaming/rawdng-go/rawerr"
)

// ByteStream is the positioned, seekable byte source the DNG side reads from.
// Position always stays within [0, Length].
type ByteStream interface {
	Length() uint64
	Position() uint64
	// SetReadPosition moves the read position, clamped to Length.
	SetReadPosition(pos uint64)
	// Get fills p completely or consumes nothing and fails with
	// rawerr.CodeStreamExhausted.
	Get(p []byte) error
	// ByteOrder is used by the typed Get helpers.
	ByteOrder() binary.ByteOrder
}

func exhausted(s ByteStream, want int) error {
	return rawerr.WithMetadata(rawerr.CodeStreamExhausted, "read past end of stream", map[string]string{
		"position": strconv.FormatUint(s.Position(), 10),
		"length":   strconv.FormatUint(s.Length(), 10),
		"want":     strconv.Itoa(want),
	})
}

// GetUint8 reads one byte.
func GetUint8(s ByteStream) (uint8, error) {
	var b [1]byte
	if err := s.Get(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// GetUint16 reads a 16-bit value in the stream's byte order.
func GetUint16(s ByteStream) (uint16, error) {
	var b [2]byte
	if err := s.Get(b[:]); err != nil {
		return 0, err
	}
	return s.ByteOrder().Uint16(b[:]), nil
}

// GetInt32 reads a signed 32-bit value in the stream's byte order.
func GetInt32(s ByteStream) (int32, error) {
	var b [4]byte
	if err := s.Get(b[:]); err != nil {
		return 0, err
	}
	return int32(s.ByteOrder().Uint32(b[:])), nil
}

// GetReal32 reads an IEEE float32 in the stream's byte order.
func GetReal32(s ByteStream) (float32, error) {
	var b [4]byte
	if err := s.Get(b[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(s.ByteOrder().Uint32(b[:])), nil
}

// StreamReader exposes a ByteStream as an io.ReadSeeker sharing its position.
type StreamReader struct {
	s ByteStream
}

// NewReader wraps s. Closing is the caller's business; the reader never closes s.
func NewReader(s ByteStream) *StreamReader {
	return &StreamReader{s: s}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	remaining := r.s.Length() - r.s.Position()
	if remaining == 0 {
		return 0, io.EOF
	}
	if uint64(len(p)) > remaining {
		p = p[:remaining]
	}
	if err := r.s.Get(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (r *StreamReader) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(r.s.Position())
	case io.SeekEnd:
		base = int64(r.s.Length())
	default:
		return int64(r.s.Position()), io.ErrNoProgress
	}

	pos := base + offset
	if pos < 0 {
		return int64(r.s.Position()), io.ErrUnexpectedEOF
	}
	r.s.SetReadPosition(uint64(pos))
	return int64(r.s.Position()), nil
}
