package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/weaming/rawdng-go/config"
	"github.com/weaming/rawdng-go/convert"
	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/exifinfo"
	"github.com/weaming/rawdng-go/logx"
	"github.com/weaming/rawdng-go/planestats"
	"github.com/weaming/rawdng-go/preview"
	"github.com/weaming/rawdng-go/rawengine"
	"github.com/weaming/rawdng-go/rawengine/synthraw"
)

// engines tried in order for -engine auto
var preferredEngines = []string{"libraw", synthraw.Name}

func main() {
	fs := flag.NewFlagSet("rawdng", flag.ContinueOnError)
	fs.Usage = usage(fs)

	cfg, err := config.Resolve(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "error: an input file is required")
		fs.Usage()
		os.Exit(1)
	}

	if err := run(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		out := fs.Output()
		fmt.Fprintf(out, "rawdng decodes a RAW file into DNG-ready planes and metadata\n\n")
		fmt.Fprintf(out, "usage: rawdng [options] <input>\n\n")
		fmt.Fprintf(out, "options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nengines: %s\n", strings.Join(rawengine.Names(), ", "))
		fmt.Fprintf(out, "environment: %s<FIELD> overrides the config file, e.g. %sENGINE\n", config.EnvPrefix, config.EnvPrefix)
		fmt.Fprintf(out, "\nexamples:\n")
		fmt.Fprintf(out, "  rawdng -meta frame.raw\n")
		fmt.Fprintf(out, "  rawdng -crop -preview frame.tif -preview-width 800 frame.raw\n")
		fmt.Fprintf(out, "  rawdng -config rawdng.yaml -stats -exif frame.raw\n")
	}
}

func run(cfg *config.Config) error {
	logger := logx.New(os.Stdout)

	logger.Step("open", filepath.Base(cfg.Input))
	stream, err := dng.OpenFile(cfg.Input)
	if err != nil {
		logger.Done("failed")
		return fmt.Errorf("cannot open input: %w", err)
	}
	defer stream.Close()

	order, err := cfg.Order()
	if err != nil {
		return err
	}
	stream.SetByteOrder(order)
	logger.Done(fmt.Sprintf("%d bytes", stream.Length()))

	engine, engineName, err := selectEngine(cfg.Engine)
	if err != nil {
		return err
	}
	if c, ok := engine.(interface{ Close() }); ok {
		defer c.Close()
	}

	if cfg.Verbose {
		logger.Info("engine: %s", engineName)
		logger.Info("config:\n%s", cfg.AsYaml())
	}

	res, err := convert.Decode(stream, engine, convert.Options{
		CropToActiveArea: cfg.CropToActiveArea,
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	img := res.Image
	logger.Info("%s %s: %dx%d, %d plane(s), %s", img.MakeName(), img.ModelName(),
		img.Bounds().Dx(), img.Bounds().Dy(), img.Planes(), img.Orientation())

	var exif *exifinfo.Info
	if cfg.Exif {
		exif = readExif(stream, logger)
	}

	var stats *planestats.Stats
	if cfg.Stats {
		logger.Step("stats", cfg.StatsBuckets)
		stats, err = planestats.Compute(img, cfg.StatsBuckets)
		if err != nil {
			logger.Done("failed")
			return fmt.Errorf("statistics: %w", err)
		}
		logger.Done(fmt.Sprintf("%d plane(s)", len(stats.Planes)))
		if err := stats.Write(os.Stdout); err != nil {
			return err
		}
	}

	if cfg.Preview != "" {
		if err := writePreview(cfg, img, logger); err != nil {
			return err
		}
	}

	if cfg.DumpMeta {
		if err := dumpMetadata(cfg, engineName, res, exif, stats); err != nil {
			return err
		}
	}

	logger.Total()
	return nil
}

func selectEngine(name string) (rawengine.Engine, string, error) {
	if name != config.AutoEngine {
		e, err := rawengine.Lookup(name)
		return e, name, err
	}
	for _, n := range preferredEngines {
		if e, err := rawengine.Lookup(n); err == nil {
			return e, n, nil
		}
	}
	return nil, "", fmt.Errorf("no raw engine registered (have %v)", rawengine.Names())
}

func readExif(stream dng.ByteStream, logger *logx.Logger) *exifinfo.Info {
	logger.Step("exif")
	info, err := exifinfo.Read(stream)
	if err != nil {
		logger.Done("none")
		logger.Warn("%v", err)
		return nil
	}
	logger.Done(strings.TrimSpace(info.Make + " " + info.Model))
	if info.FNumber > 0 {
		logger.Info("f/%.1f", info.FNumber)
	}
	if s := info.Shutter(); s != "" {
		logger.Info("%s", s)
	}
	if info.ISO > 0 {
		logger.Info("ISO %d", info.ISO)
	}
	if info.LensModel != "" {
		logger.Info("%s", info.LensModel)
	}
	return &info
}

func writePreview(cfg *config.Config, neg dng.Negative, logger *logx.Logger) error {
	logger.Step("preview", filepath.Base(cfg.Preview))
	img, err := preview.Generate(neg, cfg.PreviewWidth, cfg.PreviewGamma)
	if err != nil {
		logger.Done("failed")
		return fmt.Errorf("preview: %w", err)
	}
	if err := preview.SaveTIFF(cfg.Preview, img); err != nil {
		logger.Done("failed")
		return err
	}
	logger.Done(fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	return nil
}
