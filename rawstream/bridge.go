// Package rawstream adapts a dng.ByteStream to the C-style data stream a RAW
// engine reads from.
package rawstream

import (
	"fmt"
	"io"

	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/rawengine"
	"github.com/weaming/rawdng-go/rawerr"
)

// EOF is returned by ScanOne when the stream cannot satisfy the read.
const EOF = rawengine.EOF

var _ rawengine.DataStream = (*Bridge)(nil)

// Bridge reads from a caller-owned stream and never closes it.
type Bridge struct {
	stream dng.ByteStream
}

// New wraps stream.
func New(stream dng.ByteStream) *Bridge {
	return &Bridge{stream: stream}
}

// Valid reports whether the stream has any bytes.
func (b *Bridge) Valid() bool {
	return b.stream.Length() > 0
}

// Read copies min(size*n, remaining) bytes into p and returns the number of
// elements touched; a partial trailing element counts as one.
func (b *Bridge) Read(p []byte, size, n int) int {
	if size <= 0 || n <= 0 {
		return 0
	}

	want := uint64(size) * uint64(n)
	if remaining := b.stream.Length() - b.stream.Position(); want > remaining {
		want = remaining
	}
	if want > uint64(len(p)) {
		want = uint64(len(p))
	}
	if want == 0 {
		return 0
	}

	if err := b.stream.Get(p[:want]); err != nil {
		return 0
	}
	return int((want + uint64(size) - 1) / uint64(size))
}

// Seek moves to an absolute, relative or end-relative position and returns
// the result. Positions past the end clamp to the length; a negative result
// wraps as unsigned and so clamps too. Unknown whence values rewind to 0.
func (b *Bridge) Seek(offset int64, whence int) int64 {
	var pos uint64
	switch whence {
	case io.SeekStart:
		pos = uint64(offset)
	case io.SeekCurrent:
		pos = b.stream.Position() + uint64(offset)
	case io.SeekEnd:
		pos = b.stream.Length() + uint64(offset)
	}

	if pos > b.stream.Length() {
		pos = b.stream.Length()
	}
	b.stream.SetReadPosition(pos)
	return int64(b.stream.Position())
}

// Tell returns the current position.
func (b *Bridge) Tell() int64 {
	return int64(b.stream.Position())
}

// Size returns the stream length.
func (b *Bridge) Size() int64 {
	return int64(b.stream.Length())
}

// GetChar reads one byte as an unsigned value.
func (b *Bridge) GetChar() (int, error) {
	c, err := dng.GetUint8(b.stream)
	if err != nil {
		return 0, err
	}
	return int(c), nil
}

// GetLine zero-fills buf and reads through the next '\n', storing at most
// len(buf)-1 bytes so the result stays NUL-terminated. Bytes beyond that are
// consumed and dropped. It returns the number of bytes stored.
func (b *Bridge) GetLine(buf []byte) (int, error) {
	clear(buf)

	stored := 0
	for {
		c, err := dng.GetUint8(b.stream)
		if err != nil {
			return stored, err
		}
		if stored < len(buf)-1 {
			buf[stored] = c
			stored++
		}
		if c == '\n' {
			return stored, nil
		}
	}
}

// ScanOne reads one binary value for "%d" (int32) or "%f" (float32) in the
// stream's byte order and stores it through out. A failing stream yields
// EOF with a nil error, the stop signal engines expect. Any other format or
// destination fails with rawerr.CodeUnsupportedFormatToken.
func (b *Bridge) ScanOne(format string, out any) (int, error) {
	switch format {
	case "%d":
		switch out.(type) {
		case *int32, *int:
		default:
			return 0, unsupported(format, out)
		}
		v, err := dng.GetInt32(b.stream)
		if err != nil {
			return EOF, nil
		}
		switch p := out.(type) {
		case *int32:
			*p = v
		case *int:
			*p = int(v)
		}
		return 1, nil

	case "%f":
		switch out.(type) {
		case *float32, *float64:
		default:
			return 0, unsupported(format, out)
		}
		v, err := dng.GetReal32(b.stream)
		if err != nil {
			return EOF, nil
		}
		switch p := out.(type) {
		case *float32:
			*p = v
		case *float64:
			*p = float64(v)
		}
		return 1, nil

	default:
		return 0, unsupported(format, out)
	}
}

// EOF reports whether the position has reached the end.
func (b *Bridge) EOF() bool {
	return b.stream.Position() >= b.stream.Length()
}

func unsupported(format string, out any) error {
	return rawerr.WithMetadata(rawerr.CodeUnsupportedFormatToken, "unsupported scan format "+format, map[string]string{
		"format": format,
		"dest":   fmt.Sprintf("%T", out),
	})
}
