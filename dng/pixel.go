package dng

import (
	"encoding/binary"
	"fmt"
	"image"
	"unsafe"
)

// PixelType is the TIFF field type of a stored sample.
type PixelType uint16

const (
	PixelTypeByte  PixelType = 1
	PixelTypeShort PixelType = 3
	PixelTypeLong  PixelType = 4
	PixelTypeFloat PixelType = 11
)

// TagTypeSize returns the byte size of one sample of the given type, 0 for
// types that cannot hold pixels.
func TagTypeSize(t PixelType) int {
	switch t {
	case PixelTypeByte:
		return 1
	case PixelTypeShort:
		return 2
	case PixelTypeLong, PixelTypeFloat:
		return 4
	default:
		return 0
	}
}

func (t PixelType) String() string {
	switch t {
	case PixelTypeByte:
		return "byte"
	case PixelTypeShort:
		return "short"
	case PixelTypeLong:
		return "long"
	case PixelTypeFloat:
		return "float"
	default:
		return fmt.Sprintf("type(%d)", uint16(t))
	}
}

// PixelBuffer describes interleaved planar pixels in a flat byte block.
// Steps are in samples, not bytes.
type PixelBuffer struct {
	Area      image.Rectangle
	Plane     int
	Planes    int
	RowStep   int
	ColStep   int
	PlaneStep int
	PixelType PixelType
	PixelSize int
	Data      []byte
}

// NewPixelBuffer lays out planes interleaved per pixel, rows packed.
func NewPixelBuffer(area image.Rectangle, planes int, pixelType PixelType, data []byte) PixelBuffer {
	return PixelBuffer{
		Area:      area,
		Plane:     0,
		Planes:    planes,
		RowStep:   planes * area.Dx(),
		ColStep:   planes,
		PlaneStep: 1,
		PixelType: pixelType,
		PixelSize: TagTypeSize(pixelType),
		Data:      data,
	}
}

// BufferSize returns the bytes needed to hold area × planes samples of pixelType.
func BufferSize(area image.Rectangle, planes int, pixelType PixelType) int {
	return area.Dy() * area.Dx() * planes * TagTypeSize(pixelType)
}

func (b *PixelBuffer) offset(row, col, plane int) int {
	return ((row-b.Area.Min.Y)*b.RowStep +
		(col-b.Area.Min.X)*b.ColStep +
		(plane-b.Plane)*b.PlaneStep) * b.PixelSize
}

// Pixel returns the bytes starting at the given sample.
func (b *PixelBuffer) Pixel(row, col, plane int) []byte {
	return b.Data[b.offset(row, col, plane):]
}

// Uint16 reads a 16-bit sample in host byte order.
func (b *PixelBuffer) Uint16(row, col, plane int) uint16 {
	return binary.NativeEndian.Uint16(b.Data[b.offset(row, col, plane):])
}

// SetUint16 writes a 16-bit sample in host byte order.
func (b *PixelBuffer) SetUint16(row, col, plane int, v uint16) {
	binary.NativeEndian.PutUint16(b.Data[b.offset(row, col, plane):], v)
}

// Uint16s views the whole block as 16-bit samples. The block must be
// 2-byte aligned, which HeapAllocator guarantees.
func (b *PixelBuffer) Uint16s() []uint16 {
	if len(b.Data) < 2 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&b.Data[0])), len(b.Data)/2)
}

// CopyArea copies planes [plane, plane+planes) of area from src.
func (b *PixelBuffer) CopyArea(src *PixelBuffer, area image.Rectangle, plane, planes int) {
	area = area.Intersect(b.Area).Intersect(src.Area)
	if area.Empty() || planes <= 0 {
		return
	}

	size := b.PixelSize
	if src.PixelSize != size {
		return
	}

	// rows are contiguous runs when both sides pack planes the same way
	if b.ColStep == src.ColStep && b.PlaneStep == 1 && src.PlaneStep == 1 && planes == b.Planes && planes == src.Planes {
		n := area.Dx() * b.ColStep * size
		for row := area.Min.Y; row < area.Max.Y; row++ {
			copy(b.Data[b.offset(row, area.Min.X, plane):][:n], src.Data[src.offset(row, area.Min.X, plane):][:n])
		}
		return
	}

	for row := area.Min.Y; row < area.Max.Y; row++ {
		for col := area.Min.X; col < area.Max.X; col++ {
			for p := plane; p < plane+planes; p++ {
				copy(b.Data[b.offset(row, col, p):][:size], src.Data[src.offset(row, col, p):][:size])
			}
		}
	}
}

// TileBuffer is a view into a PixelBuffer whose Data starts at Area's origin.
type TileBuffer struct {
	PixelBuffer
	Dirty bool
}

func uint16Bytes(words []uint16) []byte {
	if len(words) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*2)
}
