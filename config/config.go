// Package config resolves the converter settings from defaults, an optional
// YAML file, RAWDNG_* environment variables and command-line flags, in that
// order of precedence.
package config

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "RAWDNG_"

// AutoEngine picks the best registered engine.
const AutoEngine = "auto"

type Config struct {
	Input            string `yaml:"input" env:"INPUT"`
	Engine           string `yaml:"engine" env:"ENGINE"`
	ByteOrder        string `yaml:"byte_order" env:"BYTE_ORDER"`
	CropToActiveArea bool   `yaml:"crop_to_active_area" env:"CROP_TO_ACTIVE_AREA"`
	Verbose          bool   `yaml:"verbose" env:"VERBOSE"`

	DumpMeta   bool   `yaml:"dump_meta" env:"DUMP_META"`
	MetaOutput string `yaml:"meta_output" env:"META_OUTPUT"` // <input>.meta.yaml when empty

	Preview      string `yaml:"preview" env:"PREVIEW"` // TIFF path, no preview when empty
	PreviewWidth int    `yaml:"preview_width" env:"PREVIEW_WIDTH"`
	PreviewGamma bool   `yaml:"preview_gamma" env:"PREVIEW_GAMMA"`

	Stats        bool `yaml:"stats" env:"STATS"`
	StatsBuckets int  `yaml:"stats_buckets" env:"STATS_BUCKETS"`

	Exif bool `yaml:"exif" env:"EXIF"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Engine:       AutoEngine,
		ByteOrder:    "little",
		PreviewWidth: 1024,
		PreviewGamma: true,
		StatsBuckets: 32,
	}
}

// Load applies the YAML file at filename (skipped when empty) and then the
// environment over the defaults, and validates the result.
func Load(filename string) (Config, error) {
	c, err := load(filename)
	if err != nil {
		return c, err
	}
	return c, c.Validate()
}

func load(filename string) (Config, error) {
	c := Default()

	if filename != "" {
		contents, err := os.ReadFile(filename)
		if err != nil {
			return c, fmt.Errorf("read config %s: %w", filename, err)
		}
		if err := yaml.Unmarshal(contents, &c); err != nil {
			return c, fmt.Errorf("parse config %s: %w", filename, err)
		}
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// Validate rejects settings the converter cannot act on.
func (c *Config) Validate() error {
	if _, err := c.Order(); err != nil {
		return err
	}
	if c.Engine == "" {
		return fmt.Errorf("engine must not be empty")
	}
	if c.PreviewWidth <= 0 {
		return fmt.Errorf("preview width %d must be positive", c.PreviewWidth)
	}
	if c.StatsBuckets <= 0 {
		return fmt.Errorf("stats buckets %d must be positive", c.StatsBuckets)
	}
	return nil
}

// Order returns the byte order streams scan multi-byte values with.
func (c *Config) Order() (binary.ByteOrder, error) {
	switch c.ByteOrder {
	case "little", "":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q (want little or big)", c.ByteOrder)
	}
}

// MetaPath is where the metadata dump goes.
func (c *Config) MetaPath() string {
	if c.MetaOutput != "" {
		return c.MetaOutput
	}
	return c.Input + ".meta.yaml"
}

// AsYaml renders the effective settings.
func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("# config: %v\n", err)
	}
	return string(b)
}
