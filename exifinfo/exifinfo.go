// Package exifinfo reads capture parameters from TIFF-based RAW containers.
package exifinfo

import (
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/weaming/rawdng-go/dng"
)

// Info holds the EXIF capture parameters.
type Info struct {
	Make         string  `yaml:"make"`
	Model        string  `yaml:"model"`
	LensModel    string  `yaml:"lens_model,omitempty"`
	FNumber      float64 `yaml:"f_number,omitempty"`
	ExposureTime float64 `yaml:"exposure_time,omitempty"` // seconds
	ISO          uint16  `yaml:"iso,omitempty"`
}

// Read decodes EXIF from the start of stream. Missing tags stay zero; only a
// container that cannot be parsed at all is an error. The stream position is
// restored on return.
func Read(stream dng.ByteStream) (Info, error) {
	pos := stream.Position()
	defer stream.SetReadPosition(pos)

	stream.SetReadPosition(0)
	x, err := exif.Decode(dng.NewReader(stream))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return Info{}, fmt.Errorf("exif: %w", err)
	}

	var info Info
	info.Make = stringTag(x, exif.Make)
	info.Model = stringTag(x, exif.Model)
	info.LensModel = stringTag(x, exif.LensModel)
	info.FNumber = ratTag(x, exif.FNumber)
	info.ExposureTime = ratTag(x, exif.ExposureTime)

	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil && tag.Count > 0 {
		if iso, err := tag.Int(0); err == nil && iso > 0 && iso <= 0xFFFF {
			info.ISO = uint16(iso)
		}
	}
	return info, nil
}

// Shutter formats an exposure time the way cameras display it.
func (i Info) Shutter() string {
	switch {
	case i.ExposureTime <= 0:
		return ""
	case i.ExposureTime < 1:
		return fmt.Sprintf("1/%.0f", 1/i.ExposureTime)
	default:
		return fmt.Sprintf("%gs", i.ExposureTime)
	}
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil || tag.Format() != tiff.StringVal {
		return ""
	}
	s, _ := tag.StringVal()
	return strings.TrimRight(s, "\x00 ")
}

func ratTag(x *exif.Exif, name exif.FieldName) float64 {
	tag, err := x.Get(name)
	if err != nil || tag.Format() != tiff.RatVal || tag.Count == 0 {
		return 0
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
