package rawimage

import (
	"image"
	"testing"

	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/rawerr"
)

func TestNewRejectsInvalidLayout(t *testing.T) {
	cases := []struct {
		name      string
		bounds    image.Rectangle
		planes    int
		pixelType dng.PixelType
	}{
		{"empty bounds", image.Rect(0, 0, 0, 4), 1, dng.PixelTypeShort},
		{"no planes", image.Rect(0, 0, 4, 4), 0, dng.PixelTypeShort},
		{"unknown pixel type", image.Rect(0, 0, 4, 4), 1, dng.PixelType(99)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img, err := New(tc.bounds, tc.planes, tc.pixelType, nil)
			if img != nil || !rawerr.HasCode(err, rawerr.CodeInvalidGeometry) {
				t.Errorf("got %v, %v", img, err)
			}
		})
	}
}

func TestNewStartsBlank(t *testing.T) {
	img, err := New(image.Rect(0, 0, 4, 3), 3, dng.PixelTypeShort, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(img.Samples()) != 36 {
		t.Fatalf("samples: got %d", len(img.Samples()))
	}
	for _, v := range img.Samples() {
		if v != 0 {
			t.Fatal("pixels must start zeroed")
		}
	}
	for p := 0; p < 4; p++ {
		if img.ColorKey(p) != dng.ColorKeyUnknown {
			t.Errorf("plane %d: got %v", p, img.ColorKey(p))
		}
	}
	if img.CameraNeutral() != nil || img.ColorMatrix() != nil {
		t.Error("blank image must have no calibration")
	}
}

func TestClone(t *testing.T) {
	img := decode(t, bayerHeader())

	c, err := img.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if c.Bounds() != img.Bounds() || c.Planes() != img.Planes() || c.PixelType() != img.PixelType() {
		t.Fatalf("layout differs: %v %d", c.Bounds(), c.Planes())
	}

	src, dst := img.Samples(), c.Samples()
	for i := range src {
		if src[i] != dst[i] {
			t.Fatalf("sample %d: got %d, want %d", i, dst[i], src[i])
		}
	}

	if c.MakeName() != "" || c.Orientation() != dng.OrientationNormal || c.ColorMatrix() != nil {
		t.Error("clone must not carry metadata")
	}

	dst[0] = 9999
	if src[0] == 9999 {
		t.Error("clone shares memory with the original")
	}
}

func TestAcquireTileBuffer(t *testing.T) {
	img := decode(t, bayerHeader())
	area := image.Rect(2, 1, 5, 3)

	tile, err := img.AcquireTileBuffer(area, false)
	if err != nil {
		t.Fatalf("AcquireTileBuffer failed: %v", err)
	}
	if tile.Area != area || tile.Dirty {
		t.Fatalf("tile: area %v dirty %v", tile.Area, tile.Dirty)
	}
	for row := area.Min.Y; row < area.Max.Y; row++ {
		for col := area.Min.X; col < area.Max.X; col++ {
			want := uint16(row*24 + col)
			if got := tile.Uint16(row, col, 0); got != want {
				t.Errorf("(%d,%d): got %d, want %d", row, col, got, want)
			}
		}
	}

	dirty, err := img.AcquireTileBuffer(area, true)
	if err != nil {
		t.Fatalf("AcquireTileBuffer failed: %v", err)
	}
	dirty.SetUint16(2, 4, 0, 7)
	if got := img.Samples()[2*24+4]; got != 7 {
		t.Errorf("write through tile: got %d", got)
	}

	for _, bad := range []image.Rectangle{
		image.Rect(20, 18, 25, 20),
		image.Rect(-1, 0, 2, 2),
		image.Rect(3, 3, 3, 3),
	} {
		if _, err := img.AcquireTileBuffer(bad, false); !rawerr.HasCode(err, rawerr.CodeInvalidGeometry) {
			t.Errorf("area %v: got %v", bad, err)
		}
	}
}
