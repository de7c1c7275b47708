// Package preview renders a reduced 16-bit view of a decoded image.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/weaming/rawdng-go/dng"
)

// Params describes how an image is reduced.
type Params struct {
	Reduction int
	Width     int
	Height    int
	Gamma     bool

	black [3]float64
	white [3]float64
}

// Prepare computes the reduction for neg at maxWidth and reads its levels.
// Channels without a usable white level fall back to the full 16-bit range.
func Prepare(neg dng.Negative, maxWidth int, gamma bool) (Params, error) {
	if maxWidth <= 0 {
		return Params{}, fmt.Errorf("preview width %d must be positive", maxWidth)
	}
	if neg.PixelType() != dng.PixelTypeShort {
		return Params{}, fmt.Errorf("preview needs 16-bit samples, got %s", neg.PixelType())
	}
	if p := neg.Planes(); p != 1 && p != 3 {
		return Params{}, fmt.Errorf("preview supports 1 or 3 planes, got %d", p)
	}

	b := neg.Bounds()
	reduction := calculateReduction(b.Dx(), maxWidth)
	params := Params{
		Reduction: reduction,
		Width:     b.Dx() / reduction,
		Height:    b.Dy() / reduction,
		Gamma:     gamma,
	}
	if params.Width == 0 || params.Height == 0 {
		return Params{}, fmt.Errorf("image %v too small for reduction %d", b, reduction)
	}

	for ch := 0; ch < neg.Planes(); ch++ {
		black, white := neg.BlackLevel(ch), neg.WhiteLevel(ch)
		if white <= black {
			black, white = 0, math.MaxUint16
		}
		params.black[ch], params.white[ch] = black, white
	}
	return params, nil
}

// Generate box-averages neg into a Gray16 (one plane) or RGBA64 (three
// planes) image no wider than maxWidth.
func Generate(neg dng.Negative, maxWidth int, gamma bool) (image.Image, error) {
	params, err := Prepare(neg, maxWidth, gamma)
	if err != nil {
		return nil, err
	}

	tile, err := neg.AcquireTileBuffer(neg.Bounds(), false)
	if err != nil {
		return nil, err
	}

	out := image.Rect(0, 0, params.Width, params.Height)
	if neg.Planes() == 1 {
		gray := image.NewGray16(out)
		for row := 0; row < params.Height; row++ {
			for col := 0; col < params.Width; col++ {
				v := params.downsample(&tile, row, col, 0)
				gray.SetGray16(col, row, color.Gray16{Y: params.to16(v, 0)})
			}
		}
		return gray, nil
	}

	rgb := image.NewRGBA64(out)
	for row := 0; row < params.Height; row++ {
		for col := 0; col < params.Width; col++ {
			rgb.SetRGBA64(col, row, color.RGBA64{
				R: params.to16(params.downsample(&tile, row, col, 0), 0),
				G: params.to16(params.downsample(&tile, row, col, 1), 1),
				B: params.to16(params.downsample(&tile, row, col, 2), 2),
				A: math.MaxUint16,
			})
		}
	}
	return rgb, nil
}

// calculateReduction returns ceil(width/maxWidth), at least 1.
func calculateReduction(width, maxWidth int) int {
	reduction := (width + maxWidth - 1) / maxWidth
	if reduction < 1 {
		return 1
	}
	return reduction
}

// downsample averages one reduction×reduction block of a plane.
func (p Params) downsample(tile *dng.TileBuffer, row, col, plane int) float64 {
	origin := tile.Area.Min
	var acc uint64
	for r := 0; r < p.Reduction; r++ {
		for c := 0; c < p.Reduction; c++ {
			y := origin.Y + row*p.Reduction + r
			x := origin.X + col*p.Reduction + c
			acc += uint64(tile.Uint16(y, x, plane))
		}
	}
	return float64(acc) / float64(p.Reduction*p.Reduction)
}

func (p Params) to16(v float64, ch int) uint16 {
	v = (v - p.black[ch]) / (p.white[ch] - p.black[ch])
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	if p.Gamma {
		v = srgbGamma(v)
	}
	return uint16(math.Min(math.MaxUint16, math.Max(0, v*math.MaxUint16+0.5)))
}

// srgbGamma is the exact sRGB transfer curve.
func srgbGamma(linear float64) float64 {
	if linear <= 0.0031308 {
		return 12.92 * linear
	}
	return 1.055*math.Pow(linear, 1.0/2.4) - 0.055
}
