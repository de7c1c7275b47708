package config

import (
	"flag"
	"fmt"
)

type flagBinding struct {
	name  string
	usage string
	field func(*Config) any
}

var flagTable = []flagBinding{
	{"engine", "decoder engine, or auto", func(c *Config) any { return &c.Engine }},
	{"byte-order", "byte order for scanned values: little, big", func(c *Config) any { return &c.ByteOrder }},
	{"crop", "store only the active area instead of the entire sensor", func(c *Config) any { return &c.CropToActiveArea }},
	{"v", "verbose output", func(c *Config) any { return &c.Verbose }},
	{"meta", "dump decoded metadata as YAML", func(c *Config) any { return &c.DumpMeta }},
	{"meta-out", "metadata path (default <input>.meta.yaml)", func(c *Config) any { return &c.MetaOutput }},
	{"preview", "write a reduced TIFF preview to this path", func(c *Config) any { return &c.Preview }},
	{"preview-width", "maximum preview width", func(c *Config) any { return &c.PreviewWidth }},
	{"preview-gamma", "apply the sRGB curve to the preview", func(c *Config) any { return &c.PreviewGamma }},
	{"stats", "print per-plane statistics", func(c *Config) any { return &c.Stats }},
	{"stats-buckets", "histogram buckets for -stats", func(c *Config) any { return &c.StatsBuckets }},
	{"exif", "print EXIF capture parameters", func(c *Config) any { return &c.Exif }},
}

// BindFlags registers one flag per setting, defaulting to c's values.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	for _, b := range flagTable {
		switch p := b.field(c).(type) {
		case *string:
			fs.StringVar(p, b.name, *p, b.usage)
		case *bool:
			fs.BoolVar(p, b.name, *p, b.usage)
		case *int:
			fs.IntVar(p, b.name, *p, b.usage)
		}
	}
}

// overlay copies the flags named in set from src.
func (c *Config) overlay(src *Config, set map[string]bool) {
	for _, b := range flagTable {
		if !set[b.name] {
			continue
		}
		switch dst := b.field(c).(type) {
		case *string:
			*dst = *b.field(src).(*string)
		case *bool:
			*dst = *b.field(src).(*bool)
		case *int:
			*dst = *b.field(src).(*int)
		}
	}
}

// Resolve parses args and layers explicitly given flags over the file named
// by -config and the environment. The first positional argument is the
// input file.
func Resolve(fs *flag.FlagSet, args []string) (Config, error) {
	var path string
	fs.StringVar(&path, "config", "", "YAML config file")

	flags := Default()
	flags.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	c, err := load(path)
	if err != nil {
		return c, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	c.overlay(&flags, set)

	if fs.NArg() > 0 {
		c.Input = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return c, fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	return c, c.Validate()
}
