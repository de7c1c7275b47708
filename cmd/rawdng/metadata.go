package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/weaming/rawdng-go/config"
	"github.com/weaming/rawdng-go/convert"
	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/exifinfo"
	"github.com/weaming/rawdng-go/planestats"
	"github.com/weaming/rawdng-go/rawimage"
)

type metadata struct {
	File   string `yaml:"file"`
	Engine string `yaml:"engine"`
	Make   string `yaml:"make"`
	Model  string `yaml:"model"`

	Bounds      string            `yaml:"bounds"`
	Planes      int               `yaml:"planes"`
	Geometry    rawimage.Geometry `yaml:"geometry"`
	Orientation dng.Orientation   `yaml:"orientation"`
	ActiveArea  string            `yaml:"active_area"`

	DefaultScale      [2]string `yaml:"default_scale,flow"`
	DefaultCropOrigin [2]string `yaml:"default_crop_origin,flow"`
	DefaultCropSize   [2]string `yaml:"default_crop_size,flow"`

	CFAPattern    string         `yaml:"cfa_pattern"`
	Channels      int            `yaml:"channels"`
	PlaneColors   []dng.ColorKey `yaml:"plane_colors,flow"`
	CameraNeutral []float64      `yaml:"camera_neutral,flow"`
	ColorMatrix   [][]float64    `yaml:"color_matrix,omitempty"`
	BlackLevel    []float64      `yaml:"black_level,flow"`
	WhiteLevel    []float64      `yaml:"white_level,flow"`

	Warnings []string          `yaml:"warnings,omitempty"`
	Exif     *exifinfo.Info    `yaml:"exif,omitempty"`
	Stats    *planestats.Stats `yaml:"stats,omitempty"`
}

func collectMetadata(input, engine string, res *convert.Result) metadata {
	img := res.Image
	m := metadata{
		File:        input,
		Engine:      engine,
		Make:        img.MakeName(),
		Model:       img.ModelName(),
		Bounds:      img.Bounds().String(),
		Planes:      img.Planes(),
		Geometry:    img.Geometry(),
		Orientation: img.Orientation(),
		ActiveArea:  img.ActiveArea().String(),

		DefaultScale:      [2]string{img.DefaultScaleH().String(), img.DefaultScaleV().String()},
		DefaultCropOrigin: [2]string{img.DefaultCropOriginH().String(), img.DefaultCropOriginV().String()},
		DefaultCropSize:   [2]string{img.DefaultCropSizeH().String(), img.DefaultCropSizeV().String()},

		CFAPattern: fmt.Sprintf("%#08x", img.Pattern()),
		Channels:   img.Channels(),
	}

	for p := 0; p < 4; p++ {
		m.PlaneColors = append(m.PlaneColors, img.ColorKey(p))
		m.BlackLevel = append(m.BlackLevel, img.BlackLevel(p))
		m.WhiteLevel = append(m.WhiteLevel, img.WhiteLevel(p))
	}
	if n := img.CameraNeutral(); n != nil {
		m.CameraNeutral = n.RawVector().Data
	}
	if cm := img.ColorMatrix(); cm != nil {
		m.ColorMatrix = dng.MatrixRows(cm)
	}
	for _, w := range res.Warnings {
		m.Warnings = append(m.Warnings, w.Error())
	}
	return m
}

func dumpMetadata(cfg *config.Config, engine string, res *convert.Result, exif *exifinfo.Info, stats *planestats.Stats) error {
	outputPath := cfg.MetaPath()

	m := collectMetadata(cfg.Input, engine, res)
	m.Exif = exif
	m.Stats = stats

	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("cannot encode metadata: %w", err)
	}
	if err := os.WriteFile(outputPath, b, 0o644); err != nil {
		return fmt.Errorf("cannot write metadata file: %w", err)
	}

	fmt.Printf("   : read %s\n", cfg.Input)
	fmt.Printf("   : dump metadata to %s\n", outputPath)
	return nil
}
