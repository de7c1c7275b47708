// Package synthraw is a RAW engine for a small self-describing container.
// It decodes nothing camera specific: the header states the geometry and
// calibration, and the body is plain little-endian 16-bit samples. It exists
// so pipelines can be exercised without a native decoder.
//
// Layout:
//
//	SYNRAW\n
//	<make>\n
//	<model>\n
//	<cdesc>\n
//	int32   raw width, raw height, width, height, top margin, left margin,
//	        flip, colors, filters
//	float32 pixel aspect
//	int32   black, cblack[4], maximum
//	float32 cam_mul[4], cam_xyz[4][3]
//	uint16  raw width × raw height samples (× 3 when filters is 0)
package synthraw

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Magic is the first line of every container.
const Magic = "SYNRAW"

// Header is everything before the samples.
type Header struct {
	Make  string
	Model string
	CDesc string

	RawWidth   int
	RawHeight  int
	Width      int
	Height     int
	TopMargin  int
	LeftMargin int
	Flip       int
	Colors     int
	Filters    uint32

	PixelAspect float32

	Black   uint32
	CBlack  [4]uint32
	Maximum uint32
	CamMul  [4]float32
	CamXYZ  [4][3]float32
}

// Samples returns how many uint16 values follow the header.
func (h *Header) Samples() int {
	n := h.RawWidth * h.RawHeight
	if h.Filters == 0 {
		n *= 3
	}
	return n
}

// Encode writes h and samples as a container.
func Encode(w io.Writer, h *Header, samples []uint16) error {
	if len(samples) != h.Samples() {
		return fmt.Errorf("sample count mismatch: have %d, header needs %d", len(samples), h.Samples())
	}

	bw := bufio.NewWriter(w)
	for _, line := range []string{Magic, h.Make, h.Model, h.CDesc} {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}

	ints := []int32{
		int32(h.RawWidth), int32(h.RawHeight), int32(h.Width), int32(h.Height),
		int32(h.TopMargin), int32(h.LeftMargin), int32(h.Flip), int32(h.Colors),
		int32(h.Filters),
	}
	if err := binary.Write(bw, binary.LittleEndian, ints); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, h.PixelAspect); err != nil {
		return err
	}

	levels := []int32{int32(h.Black)}
	for _, c := range h.CBlack {
		levels = append(levels, int32(c))
	}
	levels = append(levels, int32(h.Maximum))
	if err := binary.Write(bw, binary.LittleEndian, levels); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, h.CamMul); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, h.CamXYZ); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, samples); err != nil {
		return err
	}
	return bw.Flush()
}
