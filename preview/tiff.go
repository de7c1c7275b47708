package preview

import (
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/tiff"
)

// WriteTIFF encodes img as a deflate-compressed TIFF.
func WriteTIFF(w io.Writer, img image.Image) error {
	if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("encode preview tiff: %w", err)
	}
	return nil
}

// SaveTIFF writes img to filename.
func SaveTIFF(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}

	if err := WriteTIFF(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
