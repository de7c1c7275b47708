// Package rawimage turns a RAW stream into a pixel-populated image carrying
// everything a DNG writer asks for: geometry, orientation, CFA colours and
// calibration.
package rawimage

import (
	"image"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/rawerr"
)

// Geometry records how the stored plane relates to the engine's sensor
// layout. Dimensions are after any Fuji axis swap.
type Geometry struct {
	RawWidth     int  `yaml:"raw_width"`
	RawHeight    int  `yaml:"raw_height"`
	ActiveWidth  int  `yaml:"active_width"`
	ActiveHeight int  `yaml:"active_height"`
	FinalWidth   int  `yaml:"final_width"`
	FinalHeight  int  `yaml:"final_height"`
	TopMargin    int  `yaml:"top_margin"`
	LeftMargin   int  `yaml:"left_margin"`
	EntireSensor bool `yaml:"entire_sensor_data"`
	FujiRotate90 bool `yaml:"fuji_rotate90"`
}

// Image owns a planar 16-bit pixel buffer and the metadata decoded with it.
type Image struct {
	alloc     dng.Allocator
	bounds    image.Rectangle
	planes    int
	pixelType dng.PixelType
	memory    dng.Block
	buffer    dng.PixelBuffer

	geometry    Geometry
	orientation dng.Orientation
	activeArea  image.Rectangle

	scaleH      dng.URational
	scaleV      dng.URational
	cropOriginH dng.URational
	cropOriginV dng.URational
	cropSizeH   dng.URational
	cropSizeV   dng.URational

	pattern     uint32
	channels    int
	planeColors [4]dng.ColorKey

	cameraNeutral *mat.VecDense
	colorMatrix   *mat.Dense
	blackLevel    [4]float64
	whiteLevel    [4]float64

	makeName  string
	modelName string

	warnings []*rawerr.Error
}

var _ dng.Negative = (*Image)(nil)

// New allocates an empty image of the given layout with no metadata. Pixels
// start zeroed.
func New(bounds image.Rectangle, planes int, pixelType dng.PixelType, alloc dng.Allocator) (*Image, error) {
	if bounds.Empty() || planes <= 0 || dng.TagTypeSize(pixelType) == 0 {
		return nil, rawerr.WithMetadata(rawerr.CodeInvalidGeometry, "invalid image layout", map[string]string{
			"bounds":     bounds.String(),
			"planes":     strconv.Itoa(planes),
			"pixel_type": pixelType.String(),
		})
	}
	if alloc == nil {
		alloc = dng.DefaultAllocator
	}

	size := dng.BufferSize(bounds, planes, pixelType)
	block, err := alloc.Allocate(size)
	if err != nil {
		return nil, rawerr.Wrap(rawerr.CodeAllocationFailed, "allocate "+strconv.Itoa(size)+" bytes", err)
	}
	if len(block.Buffer()) < size {
		return nil, rawerr.New(rawerr.CodeAllocationFailed, "allocator returned a short block")
	}

	img := &Image{
		alloc:     alloc,
		bounds:    bounds,
		planes:    planes,
		pixelType: pixelType,
		memory:    block,
		buffer:    dng.NewPixelBuffer(bounds, planes, pixelType, block.Buffer()[:size]),
	}
	for i := range img.planeColors {
		img.planeColors[i] = dng.ColorKeyUnknown
	}
	return img, nil
}

// Clone copies the pixels into a new image from the same allocator.
// Metadata is not copied.
func (i *Image) Clone() (*Image, error) {
	c, err := New(i.bounds, i.planes, i.pixelType, i.alloc)
	if err != nil {
		return nil, err
	}
	c.buffer.CopyArea(&i.buffer, i.bounds, 0, i.planes)
	return c, nil
}

// AcquireTileBuffer returns a view of area sharing the image's memory.
// Writes through a dirty buffer land in the image directly.
func (i *Image) AcquireTileBuffer(area image.Rectangle, dirty bool) (dng.TileBuffer, error) {
	if area.Empty() || !area.In(i.bounds) {
		return dng.TileBuffer{}, rawerr.WithMetadata(rawerr.CodeInvalidGeometry, "tile outside image", map[string]string{
			"area":   area.String(),
			"bounds": i.bounds.String(),
		})
	}

	view := i.buffer
	view.Area = area
	view.Data = i.buffer.Pixel(area.Min.Y, area.Min.X, i.buffer.Plane)
	return dng.TileBuffer{PixelBuffer: view, Dirty: dirty}, nil
}

func (i *Image) Bounds() image.Rectangle { return i.bounds }
func (i *Image) Planes() int { return i.planes }
func (i *Image) PixelType() dng.PixelType { return i.pixelType }
func (i *Image) Geometry() Geometry { return i.geometry }
func (i *Image) MakeName() string { return i.makeName }
func (i *Image) ModelName() string { return i.modelName }
func (i *Image) Orientation() dng.Orientation { return i.orientation }
func (i *Image) ActiveArea() image.Rectangle { return i.activeArea }
func (i *Image) Pattern() uint32 { return i.pattern }
func (i *Image) Channels() int { return i.channels }

func (i *Image) DefaultScaleH() dng.URational { return i.scaleH }
func (i *Image) DefaultScaleV() dng.URational { return i.scaleV }
func (i *Image) DefaultCropOriginH() dng.URational { return i.cropOriginH }
func (i *Image) DefaultCropOriginV() dng.URational { return i.cropOriginV }
func (i *Image) DefaultCropSizeH() dng.URational { return i.cropSizeH }
func (i *Image) DefaultCropSizeV() dng.URational { return i.cropSizeV }

// ColorKey returns the filter colour of a CFA plane, Unknown past plane 3.
func (i *Image) ColorKey(plane int) dng.ColorKey {
	if plane < 0 || plane >= len(i.planeColors) {
		return dng.ColorKeyUnknown
	}
	return i.planeColors[plane]
}

// CameraNeutral returns a copy of the as-shot neutral, nil before decode.
func (i *Image) CameraNeutral() *mat.VecDense {
	if i.cameraNeutral == nil {
		return nil
	}
	return mat.VecDenseCopyOf(i.cameraNeutral)
}

// ColorMatrix returns a copy of the camera colour matrix, nil when the
// channel count has no matrix form.
func (i *Image) ColorMatrix() *mat.Dense {
	if i.colorMatrix == nil {
		return nil
	}
	return mat.DenseCopyOf(i.colorMatrix)
}

// BlackLevel returns the black level of a channel, 0 when out of range.
func (i *Image) BlackLevel(channel int) float64 {
	if channel < 0 || channel >= len(i.blackLevel) {
		return 0
	}
	return i.blackLevel[channel]
}

// WhiteLevel returns the white level of a channel, 0 when out of range.
func (i *Image) WhiteLevel(channel int) float64 {
	if channel < 0 || channel >= len(i.whiteLevel) {
		return 0
	}
	return i.whiteLevel[channel]
}

// Warnings lists the recoverable problems met while decoding.
func (i *Image) Warnings() []*rawerr.Error {
	return append([]*rawerr.Error(nil), i.warnings...)
}

// Samples views the pixel buffer as interleaved 16-bit samples. Only
// meaningful for dng.PixelTypeShort images.
func (i *Image) Samples() []uint16 {
	return i.buffer.Uint16s()
}
