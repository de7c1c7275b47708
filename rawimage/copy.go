package rawimage

import (
	"fmt"
	"image"

	"github.com/weaming/rawdng-go/rawengine"
	"github.com/weaming/rawdng-go/rawerr"
)

// sourcePlane is the engine's sensor buffer: one sample per site for mosaic
// data, or the first three channels of a four-channel site for full colour.
type sourcePlane struct {
	mosaic []uint16
	colour [][4]uint16
	stride int
	rows   int
}

func newSourcePlane(raw rawengine.RawData, sizes rawengine.Sizes, filters uint32) (sourcePlane, error) {
	src := sourcePlane{stride: sizes.RawWidth}

	var sites int
	if filters != 0 {
		src.mosaic = raw.RawImage
		sites = len(raw.RawImage)
	} else {
		src.colour = raw.Image
		sites = len(raw.Image)
	}

	if sizes.RawWidth <= 0 || sizes.RawHeight <= 0 || sites < sizes.RawWidth*sizes.RawHeight {
		return sourcePlane{}, rawerr.WithMetadata(rawerr.CodeInvalidGeometry, "engine raw buffer does not cover the sensor", map[string]string{
			"raw":   fmt.Sprintf("%dx%d", sizes.RawWidth, sizes.RawHeight),
			"sites": fmt.Sprint(sites),
		})
	}
	src.rows = sizes.RawHeight
	return src, nil
}

func (s sourcePlane) bounds() image.Rectangle {
	return image.Rect(0, 0, s.stride, s.rows)
}

func (s sourcePlane) at(row, col, plane int) uint16 {
	i := row*s.stride + col
	if s.mosaic != nil {
		return s.mosaic[i]
	}
	return s.colour[i][plane]
}

// copyPlane copies region of src to the origin of img. With transpose set,
// source (row, col) lands at output (col, row), rotating the plane to match
// swapped axes. Output columns past the region stay zero.
func copyPlane(img *Image, src sourcePlane, region image.Rectangle, transpose bool) error {
	if !region.In(src.bounds()) {
		return rawerr.WithMetadata(rawerr.CodeInvalidGeometry, "copy region outside engine buffer", map[string]string{
			"region": region.String(),
			"source": src.bounds().String(),
		})
	}

	out := region.Sub(region.Min)
	if transpose {
		out = image.Rect(0, 0, region.Dy(), region.Dx())
	}
	if !out.In(img.bounds.Sub(img.bounds.Min)) {
		return rawerr.WithMetadata(rawerr.CodeInvalidGeometry, "copy region larger than image", map[string]string{
			"region": out.String(),
			"bounds": img.bounds.String(),
		})
	}

	dst := img.Samples()
	width := img.bounds.Dx()
	planes := img.planes

	if src.mosaic != nil && !transpose {
		n := region.Dx()
		for row := region.Min.Y; row < region.Max.Y; row++ {
			d := (row - region.Min.Y) * width
			s := row*src.stride + region.Min.X
			copy(dst[d:d+n], src.mosaic[s:s+n])
		}
		return nil
	}

	for row := region.Min.Y; row < region.Max.Y; row++ {
		for col := region.Min.X; col < region.Max.X; col++ {
			r, c := row-region.Min.Y, col-region.Min.X
			if transpose {
				r, c = c, r
			}
			base := (r*width + c) * planes
			for p := 0; p < planes; p++ {
				dst[base+p] = src.at(row, col, p)
			}
		}
	}
	return nil
}
