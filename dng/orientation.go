package dng

// Orientation is an image orientation in Adobe's internal numbering: the low
// two bits count 90° clockwise turns, bit 2 is a horizontal mirror applied
// first.
type Orientation uint8

const (
	OrientationNormal      Orientation = 0
	OrientationRotate90CW  Orientation = 1
	OrientationRotate180   Orientation = 2
	OrientationRotate90CCW Orientation = 3
	OrientationMirror      Orientation = 4
	OrientationMirror90CW  Orientation = 5
	OrientationMirror180   Orientation = 6
	OrientationMirror90CCW Orientation = 7
)

var orientationNames = [8]string{
	"Normal", "Rotate90CW", "Rotate180", "Rotate90CCW",
	"Mirror", "Mirror90CW", "Mirror180", "Mirror90CCW",
}

// TIFF orientation tag value for each Adobe orientation
var adobeToTIFF = [8]uint16{1, 6, 3, 8, 2, 7, 4, 5}

// Add composes o followed by b.
func (o Orientation) Add(b Orientation) Orientation {
	x := uint8(o & 7)
	y := uint8(b & 7)

	if y&4 != 0 {
		if x&1 != 0 {
			x ^= 6
		} else {
			x ^= 4
		}
	}

	return Orientation(((x + y) & 3) | (x & 4))
}

// FlipsAxes reports whether the orientation swaps width and height.
func (o Orientation) FlipsAxes() bool {
	return o&1 != 0
}

// TIFF returns the value of the TIFF/EXIF Orientation tag.
func (o Orientation) TIFF() uint16 {
	return adobeToTIFF[o&7]
}

// OrientationFromTIFF maps a TIFF Orientation tag value back, Normal for unknown values.
func OrientationFromTIFF(v uint16) Orientation {
	for i, t := range adobeToTIFF {
		if t == v {
			return Orientation(i)
		}
	}
	return OrientationNormal
}

func (o Orientation) String() string {
	return orientationNames[o&7]
}

// MarshalYAML emits the orientation by name.
func (o Orientation) MarshalYAML() (interface{}, error) {
	return o.String(), nil
}
