package dng

import (
	"image"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Image is the pixel side of what a DNG writer consumes.
type Image interface {
	Bounds() image.Rectangle
	Planes() int
	PixelType() PixelType
	AcquireTileBuffer(area image.Rectangle, dirty bool) (TileBuffer, error)
}

// Negative is an Image plus the per-image metadata a DNG writer needs.
type Negative interface {
	Image

	MakeName() string
	ModelName() string
	Orientation() Orientation
	ActiveArea() image.Rectangle

	DefaultScaleH() URational
	DefaultScaleV() URational
	DefaultCropOriginH() URational
	DefaultCropOriginV() URational
	DefaultCropSizeH() URational
	DefaultCropSizeV() URational

	Pattern() uint32
	Channels() int
	ColorKey(plane int) ColorKey

	CameraNeutral() *mat.VecDense
	ColorMatrix() *mat.Dense
	BlackLevel(channel int) float64
	WhiteLevel(channel int) float64
}

// Writer serializes a Negative as a DNG file.
type Writer interface {
	WriteDNG(w io.Writer, neg Negative) error
}
