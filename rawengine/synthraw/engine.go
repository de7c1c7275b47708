package synthraw

import (
	"encoding/binary"
	"io"
	"strings"

	"github.com/weaming/rawdng-go/logx"
	"github.com/weaming/rawdng-go/rawengine"
)

// Name is the registry key.
const Name = "synthraw"

// maxSamples bounds a single container to 256M samples.
const maxSamples = 1 << 28

func init() {
	rawengine.Register(Name, func() rawengine.Engine { return New() })
}

// Engine decodes synthraw containers.
type Engine struct {
	params rawengine.Params

	ds         rawengine.DataStream
	hdr        Header
	dataOffset int64
	sizes      rawengine.Sizes
	raw        rawengine.RawData
}

var _ rawengine.Engine = (*Engine)(nil)

// New returns a recycled engine.
func New() *Engine {
	e := &Engine{}
	e.Recycle()
	return e
}

func (e *Engine) Params() *rawengine.Params { return &e.params }

// Open reads the header and leaves the stream at the first sample.
func (e *Engine) Open(ds rawengine.DataStream) error {
	if ds == nil || !ds.Valid() {
		return rawengine.StatusIOError.Err()
	}
	if e.params.ShotSelect != 0 {
		return rawengine.StatusRequestForNonexistentImage.Err()
	}

	ds.Seek(0, io.SeekStart)
	magic, err := readLine(ds)
	if err != nil || magic != Magic {
		return rawengine.StatusFileUnsupported.Err()
	}

	var h Header
	for _, dst := range []*string{&h.Make, &h.Model, &h.CDesc} {
		if *dst, err = readLine(ds); err != nil {
			return rawengine.StatusDataError.Err()
		}
	}

	var filters int32
	ints := []any{
		&h.RawWidth, &h.RawHeight, &h.Width, &h.Height,
		&h.TopMargin, &h.LeftMargin, &h.Flip, &h.Colors, &filters,
	}
	if err := scan(ds, "%d", ints...); err != nil {
		return err
	}
	h.Filters = uint32(filters)

	if err := scan(ds, "%f", &h.PixelAspect); err != nil {
		return err
	}

	var levels [6]int32
	if err := scan(ds, "%d", &levels[0], &levels[1], &levels[2], &levels[3], &levels[4], &levels[5]); err != nil {
		return err
	}
	h.Black = uint32(levels[0])
	for i := range h.CBlack {
		h.CBlack[i] = uint32(levels[1+i])
	}
	h.Maximum = uint32(levels[5])

	floats := []any{&h.CamMul[0], &h.CamMul[1], &h.CamMul[2], &h.CamMul[3]}
	for i := range h.CamXYZ {
		for j := range h.CamXYZ[i] {
			floats = append(floats, &h.CamXYZ[i][j])
		}
	}
	if err := scan(ds, "%f", floats...); err != nil {
		return err
	}

	if err := validate(&h); err != nil {
		return err
	}

	e.ds = ds
	e.hdr = h
	e.dataOffset = ds.Tell()
	e.sizes = rawengine.Sizes{
		RawWidth:   h.RawWidth,
		RawHeight:  h.RawHeight,
		Width:      h.Width,
		Height:     h.Height,
		TopMargin:  h.TopMargin,
		LeftMargin: h.LeftMargin,
		IWidth:     h.Width,
		IHeight:    h.Height,
		Flip:       h.Flip,
	}

	logx.Debug("synthraw: %s %s raw=%dx%d active=%dx%d+%d+%d filters=%#x data@%d",
		h.Make, h.Model, h.RawWidth, h.RawHeight, h.Width, h.Height,
		h.LeftMargin, h.TopMargin, h.Filters, e.dataOffset)
	return nil
}

// AdjustSizesInfoOnly computes the output size: pixel aspect stretches one
// axis and a quarter-turn flip swaps them.
func (e *Engine) AdjustSizesInfoOnly() error {
	if e.ds == nil {
		return rawengine.StatusOutOfOrderCall.Err()
	}

	flip := e.hdr.Flip
	if e.params.UserFlip >= 0 {
		flip = e.params.UserFlip
	}

	iw, ih := e.hdr.Width, e.hdr.Height
	aspect := float64(e.hdr.PixelAspect)
	switch {
	case aspect > 0 && aspect < 1:
		ih = int(float64(ih)/aspect + 0.5)
	case aspect > 1:
		iw = int(float64(iw)*aspect + 0.5)
	}
	if flip&4 != 0 {
		iw, ih = ih, iw
	}

	e.sizes.IWidth = iw
	e.sizes.IHeight = ih
	e.sizes.Flip = flip
	return nil
}

// Unpack reads the samples.
func (e *Engine) Unpack() error {
	if e.ds == nil {
		return rawengine.StatusOutOfOrderCall.Err()
	}

	n := e.hdr.Samples()
	buf := make([]byte, n*2)
	e.ds.Seek(e.dataOffset, io.SeekStart)
	if got := e.ds.Read(buf, 2, n); got != n {
		return rawengine.StatusDataError.Err()
	}

	sites := e.hdr.RawWidth * e.hdr.RawHeight
	if e.hdr.Filters != 0 {
		raw := make([]uint16, sites)
		for i := range raw {
			raw[i] = binary.LittleEndian.Uint16(buf[i*2:])
		}
		e.raw = rawengine.RawData{RawImage: raw}
		return nil
	}

	img := make([][4]uint16, sites)
	for i := range img {
		for c := 0; c < 3; c++ {
			img[i][c] = binary.LittleEndian.Uint16(buf[(i*3+c)*2:])
		}
	}
	e.raw = rawengine.RawData{Image: img}
	return nil
}

func (e *Engine) Sizes() rawengine.Sizes { return e.sizes }

func (e *Engine) IParams() rawengine.IParams {
	return rawengine.IParams{
		Make:    e.hdr.Make,
		Model:   e.hdr.Model,
		Colors:  e.hdr.Colors,
		Filters: e.hdr.Filters,
		CDesc:   e.hdr.CDesc,
	}
}

func (e *Engine) ColorData() rawengine.ColorData {
	return rawengine.ColorData{
		Black:   e.hdr.Black,
		CBlack:  e.hdr.CBlack,
		Maximum: e.hdr.Maximum,
		CamMul:  e.hdr.CamMul,
		CamXYZ:  e.hdr.CamXYZ,
	}
}

func (e *Engine) RawData() rawengine.RawData { return e.raw }

func (e *Engine) Color(row, col int) int {
	if e.hdr.Filters == 0 {
		return 6
	}
	return rawengine.FilterColor(e.hdr.Filters, row, col)
}

// Recycle forgets the stream and everything decoded from it.
func (e *Engine) Recycle() {
	*e = Engine{params: rawengine.DefaultParams()}
}

func readLine(ds rawengine.DataStream) (string, error) {
	buf := make([]byte, 128)
	n, err := ds.GetLine(buf)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(buf[:n]), "\n"), nil
}

func scan(ds rawengine.DataStream, format string, dst ...any) error {
	for _, p := range dst {
		n, err := ds.ScanOne(format, p)
		if err != nil {
			return rawengine.StatusNotImplemented.Err()
		}
		if n == rawengine.EOF {
			return rawengine.StatusDataError.Err()
		}
	}
	return nil
}

func validate(h *Header) error {
	if h.RawWidth <= 0 || h.RawHeight <= 0 || h.Width <= 0 || h.Height <= 0 {
		return rawengine.StatusFileUnsupported.Err()
	}
	if h.TopMargin < 0 || h.LeftMargin < 0 {
		return rawengine.StatusBadCrop.Err()
	}
	if h.Colors < 1 || h.Colors > 4 {
		return rawengine.StatusFileUnsupported.Err()
	}
	if h.Samples() > maxSamples || h.Samples() < 0 {
		return rawengine.StatusTooBig.Err()
	}
	return nil
}
