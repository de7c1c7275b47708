// Package rawengine describes the RAW decoding engine the image adapter
// drives, the C-style data stream it reads from, and the session state
// machine that guarantees every pass ends with a recycle.
package rawengine

// EOF is the sentinel DataStream.ScanOne returns when the stream fails.
const EOF = -1

// DataStream is the read/seek/scan interface a RAW engine consumes.
type DataStream interface {
	Valid() bool
	// Read copies up to size*n bytes into p and returns the number of
	// elements touched, rounding a partial trailing element up.
	Read(p []byte, size, n int) int
	Seek(offset int64, whence int) int64
	Tell() int64
	Size() int64
	GetChar() (int, error)
	// GetLine consumes through the next '\n' and stores what fits in buf,
	// NUL-terminated.
	GetLine(buf []byte) (int, error)
	// ScanOne supports "%d" and "%f" only.
	ScanOne(format string, out any) (int, error)
	EOF() bool
}

// Engine is one RAW decoder instance. Calls must follow
// Open → AdjustSizesInfoOnly or Unpack → accessors → Recycle; Session
// enforces that order.
type Engine interface {
	// Params is read by Open and the decode steps; set it before Open.
	Params() *Params
	Open(ds DataStream) error
	AdjustSizesInfoOnly() error
	Unpack() error

	Sizes() Sizes
	IParams() IParams
	ColorData() ColorData
	RawData() RawData
	// Color returns the filter colour index at a sensor position, 6 when
	// the image has no colour filter array.
	Color(row, col int) int

	// Recycle drops everything decoded and returns the engine to its
	// freshly constructed state. It is safe to call repeatedly.
	Recycle()
}

// Params are the output options an engine honours.
type Params struct {
	OutputBPS  int // bits per output sample
	UserFlip   int // -1 keeps the file's flip, otherwise overrides it
	ShotSelect int // capture index for multi-shot files
}

// DefaultParams are the engine's settings after construction or Recycle.
func DefaultParams() Params {
	return Params{OutputBPS: 8, UserFlip: -1}
}

// Sizes is the sensor geometry an engine reports.
type Sizes struct {
	RawWidth   int // full readout width, including masked borders
	RawHeight  int
	Width      int // active (photodiode) area
	Height     int
	TopMargin  int
	LeftMargin int
	IWidth     int // output size after the engine's own adjustments
	IHeight    int
	Flip       int // 0 normal, 3 rotate 180, 5 rotate 90 CCW, 6 rotate 90 CW
}

// IParams identifies the camera and its colour filter array.
type IParams struct {
	Make    string
	Model   string
	Colors  int    // raw colour channels, 3 or 4
	Filters uint32 // packed 2x8 CFA pattern, 0 for full colour data
	CDesc   string // colour letter per channel index, e.g. "RGBG"
}

// ColorData is the engine's calibration.
type ColorData struct {
	Black   uint32
	CBlack  [4]uint32
	Maximum uint32
	CamMul  [4]float32
	CamXYZ  [4][3]float32
}

// RawData exposes the unpacked sensor buffer. RawImage holds one sample per
// site for mosaic sensors; Image holds four channels per site for full
// colour sensors. Both are RawWidth × RawHeight, row major.
type RawData struct {
	RawImage []uint16
	Image    [][4]uint16
}

// FilterColor is the packed CFA lookup: the colour index at (row, col) of
// an 8×2 repeating pattern.
func FilterColor(filters uint32, row, col int) int {
	return int(filters>>((((row<<1)&14)|(col&1))<<1)) & 3
}
