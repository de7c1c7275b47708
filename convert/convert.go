// Package convert runs a RAW stream through the image adapter and hands the
// result to a DNG writer.
package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/logx"
	"github.com/weaming/rawdng-go/rawengine"
	"github.com/weaming/rawdng-go/rawerr"
	"github.com/weaming/rawdng-go/rawimage"
)

type Options struct {
	CropToActiveArea bool
	Allocator        dng.Allocator // dng.DefaultAllocator when nil
	Logger           *logx.Logger  // silent when nil
}

// Result is what a successful conversion produced.
type Result struct {
	Image    *rawimage.Image
	Warnings []*rawerr.Error
}

func (o Options) decodeOptions() []rawimage.Option {
	opts := []rawimage.Option{rawimage.WithLogger(o.Logger)}
	if o.CropToActiveArea {
		opts = append(opts, rawimage.WithCropToActiveArea())
	}
	return opts
}

func (o Options) logger() *logx.Logger {
	if o.Logger == nil {
		return logx.Discard()
	}
	return o.Logger
}

// Decode runs only the adapter.
func Decode(stream dng.ByteStream, engine rawengine.Engine, opts Options) (*Result, error) {
	img, err := rawimage.Decode(stream, engine, opts.Allocator, opts.decodeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &Result{Image: img, Warnings: img.Warnings()}, nil
}

// Run decodes stream and writes the image as DNG to out.
func Run(stream dng.ByteStream, engine rawengine.Engine, writer dng.Writer, out io.Writer, opts Options) (*Result, error) {
	res, err := Decode(stream, engine, opts)
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	log.Step("write dng")
	if err := writer.WriteDNG(out, res.Image); err != nil {
		log.Done("failed")
		return nil, fmt.Errorf("write dng: %w", err)
	}
	log.Done("ok")
	return res, nil
}

// RunFile converts the file input into output. A partial output file is
// removed on failure.
func RunFile(input, output string, engine rawengine.Engine, writer dng.Writer, opts Options) (*Result, error) {
	stream, err := dng.OpenFile(input)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	f, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", output, err)
	}

	res, err := Run(stream, engine, writer, f, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", output, cerr)
	}
	if err != nil {
		os.Remove(output)
		return nil, err
	}
	return res, nil
}
