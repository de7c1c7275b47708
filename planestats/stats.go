// Package planestats summarises the sample distribution of each image plane.
package planestats

import (
	"fmt"
	"io"
	"math"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"

	"github.com/weaming/rawdng-go/dng"
)

// Plane is the summary of one plane.
type Plane struct {
	Index   int     `yaml:"plane"`
	Count   int     `yaml:"count"`
	Min     uint16  `yaml:"min"`
	Max     uint16  `yaml:"max"`
	Mean    float64 `yaml:"mean"`
	P50     int64   `yaml:"p50"`
	P99     int64   `yaml:"p99"`
	White   float64 `yaml:"white_level"`
	Clipped int     `yaml:"clipped"`
}

// Stats holds per-plane summaries and bucketed histograms.
type Stats struct {
	Planes []Plane `yaml:"planes"`

	hists []*histogram.Histogram
}

// Compute walks every sample of neg. Samples at or above a plane's white
// level count as clipped; planes without a white level never clip.
func Compute(neg dng.Negative, buckets int) (*Stats, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("histogram needs a positive bucket count, got %d", buckets)
	}
	if neg.PixelType() != dng.PixelTypeShort {
		return nil, fmt.Errorf("statistics need 16-bit samples, got %s", neg.PixelType())
	}

	tile, err := neg.AcquireTileBuffer(neg.Bounds(), false)
	if err != nil {
		return nil, err
	}

	s := &Stats{}
	for p := 0; p < neg.Planes(); p++ {
		plane, hist, err := computePlane(&tile, p, neg.WhiteLevel(p), buckets)
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", p, err)
		}
		s.Planes = append(s.Planes, plane)
		s.hists = append(s.hists, hist)
	}
	return s, nil
}

func computePlane(tile *dng.TileBuffer, p int, white float64, buckets int) (Plane, *histogram.Histogram, error) {
	hdr := hdrhistogram.New(1, math.MaxUint16, 3)
	hist := &histogram.Histogram{NumBuckets: buckets, ValMin: 0, ValMax: math.MaxUint16 + 1}

	plane := Plane{Index: p, White: white, Min: math.MaxUint16}
	var sum uint64

	area := tile.Area
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			v := tile.Uint16(y, x, p)
			if err := hdr.RecordValue(int64(v)); err != nil {
				return Plane{}, nil, fmt.Errorf("record %d: %w", v, err)
			}
			hist.Add(histogram.ScalarVal(v))

			plane.Min = min(plane.Min, v)
			plane.Max = max(plane.Max, v)
			sum += uint64(v)
			if white > 0 && float64(v) >= white {
				plane.Clipped++
			}
		}
	}

	plane.Count = area.Dx() * area.Dy()
	plane.Mean = float64(sum) / float64(plane.Count)
	plane.P50 = hdr.ValueAtQuantile(50)
	plane.P99 = hdr.ValueAtQuantile(99)
	return plane, hist, nil
}

// ClippedFraction returns the share of clipped samples in a plane.
func (p Plane) ClippedFraction() float64 {
	if p.Count == 0 {
		return 0
	}
	return float64(p.Clipped) / float64(p.Count)
}

// Write prints one line per plane followed by its histogram.
func (s *Stats) Write(w io.Writer) error {
	for i, p := range s.Planes {
		_, err := fmt.Fprintf(w, "plane %d: min %d max %d mean %.1f p50 %d p99 %d clipped %d (%.2f%%)\n",
			p.Index, p.Min, p.Max, p.Mean, p.P50, p.P99, p.Clipped, 100*p.ClippedFraction())
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%v\n", s.hists[i]); err != nil {
			return err
		}
	}
	return nil
}
