//go:build libraw

// Package libraw binds the LibRaw decoder as a rawengine.Engine. Build with
// -tags libraw and LibRaw's headers and library installed.
package libraw

// #cgo LDFLAGS: -lraw
// #include <stdlib.h>
// #include "libraw/libraw.h"
//
// static void rawdng_set_params(libraw_data_t *lr, int bps, int flip, int shot) {
//     lr->params.output_bps = bps;
//     lr->params.user_flip = flip;
// #if LIBRAW_COMPILE_CHECK_VERSION_NOTLESS(0, 21)
//     lr->rawparams.shot_select = shot;
// #else
//     lr->params.shot_select = shot;
// #endif
// }
import "C"
import (
	"fmt"
	"io"
	"unsafe"

	"github.com/weaming/rawdng-go/rawengine"
)

// Name is the registry key.
const Name = "libraw"

func init() {
	rawengine.Register(Name, func() rawengine.Engine { return New() })
}

// Engine is one libraw_data_t.
type Engine struct {
	params rawengine.Params
	lr     *C.libraw_data_t
	buf    unsafe.Pointer
}

var _ rawengine.Engine = (*Engine)(nil)

// New allocates a LibRaw handle. It is released by Close.
func New() *Engine {
	return &Engine{
		params: rawengine.DefaultParams(),
		lr:     C.libraw_init(0),
	}
}

func goResult(result C.int) error {
	return rawengine.Status(int(result)).Err()
}

func (e *Engine) Params() *rawengine.Params { return &e.params }

// Open copies the whole stream into C memory and hands it to
// libraw_open_buffer; LibRaw keeps the pointer until recycle.
func (e *Engine) Open(ds rawengine.DataStream) error {
	if e.lr == nil {
		return rawengine.StatusInsufficientMemory.Err()
	}
	if ds == nil || !ds.Valid() {
		return rawengine.StatusIOError.Err()
	}

	size := ds.Size()
	e.freeBuffer()
	e.buf = C.malloc(C.size_t(size))
	if e.buf == nil {
		return rawengine.StatusInsufficientMemory.Err()
	}

	ds.Seek(0, io.SeekStart)
	data := unsafe.Slice((*byte)(e.buf), int(size))
	if got := ds.Read(data, 1, int(size)); int64(got) != size {
		return fmt.Errorf("read %d of %d bytes: %w", got, size, rawengine.StatusIOError.Err())
	}

	C.rawdng_set_params(e.lr, C.int(e.params.OutputBPS), C.int(e.params.UserFlip), C.int(e.params.ShotSelect))
	return goResult(C.libraw_open_buffer(e.lr, e.buf, C.size_t(size)))
}

func (e *Engine) AdjustSizesInfoOnly() error {
	return goResult(C.libraw_adjust_sizes_info_only(e.lr))
}

func (e *Engine) Unpack() error {
	return goResult(C.libraw_unpack(e.lr))
}

func (e *Engine) Sizes() rawengine.Sizes {
	s := &e.lr.sizes
	return rawengine.Sizes{
		RawWidth:   int(s.raw_width),
		RawHeight:  int(s.raw_height),
		Width:      int(s.width),
		Height:     int(s.height),
		TopMargin:  int(s.top_margin),
		LeftMargin: int(s.left_margin),
		IWidth:     int(s.iwidth),
		IHeight:    int(s.iheight),
		Flip:       int(s.flip),
	}
}

func (e *Engine) IParams() rawengine.IParams {
	ip := &e.lr.idata
	return rawengine.IParams{
		Make:    C.GoString(&ip.make[0]),
		Model:   C.GoString(&ip.model[0]),
		Colors:  int(ip.colors),
		Filters: uint32(ip.filters),
		CDesc:   C.GoString(&ip.cdesc[0]),
	}
}

func (e *Engine) ColorData() rawengine.ColorData {
	c := &e.lr.color
	cd := rawengine.ColorData{
		Black:   uint32(c.black),
		Maximum: uint32(c.maximum),
	}
	for i := 0; i < 4; i++ {
		cd.CBlack[i] = uint32(c.cblack[i])
		cd.CamMul[i] = float32(c.cam_mul[i])
		for j := 0; j < 3; j++ {
			cd.CamXYZ[i][j] = float32(c.cam_xyz[i][j])
		}
	}
	return cd
}

// RawData copies LibRaw's buffers into Go memory.
func (e *Engine) RawData() rawengine.RawData {
	s := &e.lr.sizes
	sites := int(s.raw_width) * int(s.raw_height)
	rd := &e.lr.rawdata

	var out rawengine.RawData
	if rd.raw_image != nil {
		src := unsafe.Slice((*uint16)(unsafe.Pointer(rd.raw_image)), sites)
		out.RawImage = append([]uint16(nil), src...)
	}
	if rd.color4_image != nil {
		src := unsafe.Slice((*[4]uint16)(unsafe.Pointer(rd.color4_image)), sites)
		out.Image = append([][4]uint16(nil), src...)
	}
	return out
}

func (e *Engine) Color(row, col int) int {
	return int(C.libraw_COLOR(e.lr, C.int(row), C.int(col)))
}

func (e *Engine) Recycle() {
	if e.lr != nil {
		C.libraw_recycle(e.lr)
	}
	e.freeBuffer()
	e.params = rawengine.DefaultParams()
}

// Close releases the LibRaw handle.
func (e *Engine) Close() {
	e.Recycle()
	if e.lr != nil {
		C.libraw_close(e.lr)
		e.lr = nil
	}
}

func (e *Engine) freeBuffer() {
	if e.buf != nil {
		C.free(e.buf)
		e.buf = nil
	}
}
