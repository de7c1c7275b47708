package config

import (
	"encoding/binary"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "rawdng.yaml")
	if err := os.WriteFile(name, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return name
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("rawdng", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c != Default() {
		t.Errorf("got %+v, want defaults", c)
	}
}

func TestLoadLayers(t *testing.T) {
	name := writeYAML(t, "engine: synthraw\nbyte_order: big\npreview_width: 640\nstats: true\n")
	t.Setenv("RAWDNG_PREVIEW_WIDTH", "320")
	t.Setenv("RAWDNG_CROP_TO_ACTIVE_AREA", "true")

	c, err := Load(name)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Engine != "synthraw" || c.ByteOrder != "big" || !c.Stats {
		t.Errorf("file values lost: %+v", c)
	}
	if c.PreviewWidth != 320 || !c.CropToActiveArea {
		t.Errorf("environment must win over the file: %+v", c)
	}
	if c.StatsBuckets != 32 {
		t.Errorf("untouched default changed: %d", c.StatsBuckets)
	}

	order, err := c.Order()
	if err != nil || order != binary.BigEndian {
		t.Errorf("order: got %v, %v", order, err)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }},
		{"bad yaml", func(t *testing.T) string { return writeYAML(t, "engine: [unterminated\n") }},
		{"bad byte order", func(t *testing.T) string { return writeYAML(t, "byte_order: middle\n") }},
		{"bad preview width", func(t *testing.T) string { return writeYAML(t, "preview_width: 0\n") }},
		{"bad buckets", func(t *testing.T) string { return writeYAML(t, "stats_buckets: -1\n") }},
		{"empty engine", func(t *testing.T) string { return writeYAML(t, "engine: \"\"\n") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.path(t)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("RAWDNG_STATS_BUCKETS", "many")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric env value")
	}
}

func TestResolvePrecedence(t *testing.T) {
	name := writeYAML(t, "engine: synthraw\npreview_width: 640\nexif: true\n")
	t.Setenv("RAWDNG_PREVIEW_WIDTH", "320")
	t.Setenv("RAWDNG_STATS", "true")

	c, err := Resolve(newFlagSet(), []string{
		"-config", name,
		"-preview-width", "100",
		"-preview", "out.tif",
		"frame.raw",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if c.PreviewWidth != 100 || c.Preview != "out.tif" {
		t.Errorf("flags must win: %+v", c)
	}
	if !c.Stats {
		t.Error("unset flag must not reset the environment value")
	}
	if c.Engine != "synthraw" || !c.Exif {
		t.Errorf("file values lost: %+v", c)
	}
	if c.Input != "frame.raw" {
		t.Errorf("input: got %q", c.Input)
	}
	if c.MetaPath() != "frame.raw.meta.yaml" {
		t.Errorf("meta path: got %q", c.MetaPath())
	}
}

func TestResolveErrors(t *testing.T) {
	cases := [][]string{
		{"-no-such-flag"},
		{"-byte-order", "middle", "a.raw"},
		{"a.raw", "b.raw"},
	}
	for _, args := range cases {
		if _, err := Resolve(newFlagSet(), args); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestAsYaml(t *testing.T) {
	c := Default()
	c.Input = "frame.raw"
	out := c.AsYaml()
	for _, want := range []string{"input: frame.raw", "engine: auto", "preview_width: 1024"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml %q missing %q", out, want)
		}
	}
}
