package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/weaming/rawdng-go/config"
	"github.com/weaming/rawdng-go/convert"
	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/rawengine/synthraw"
	"github.com/weaming/rawdng-go/rawerr"
)

func writeFixture(t *testing.T, camMul [4]float32) string {
	t.Helper()
	h := &synthraw.Header{
		Make: "Synth", Model: "Tool", CDesc: "RGBG",
		RawWidth: 6, RawHeight: 4, Width: 4, Height: 2,
		TopMargin: 1, LeftMargin: 2,
		Colors: 3, Filters: 0x94949494, PixelAspect: 1,
		Black: 16, Maximum: 1023,
		CamMul: camMul,
		CamXYZ: [4][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
	samples := make([]uint16, h.Samples())
	for i := range samples {
		samples[i] = uint16(16 + i*10)
	}

	var buf bytes.Buffer
	if err := synthraw.Encode(&buf, h, samples); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	name := filepath.Join(t.TempDir(), "frame.synraw")
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return name
}

func TestSelectEngine(t *testing.T) {
	_, name, err := selectEngine(config.AutoEngine)
	if err != nil {
		t.Fatalf("auto: %v", err)
	}
	if name != "libraw" && name != synthraw.Name {
		t.Errorf("auto picked %q", name)
	}

	if _, name, err := selectEngine(synthraw.Name); err != nil || name != synthraw.Name {
		t.Errorf("explicit: %q, %v", name, err)
	}

	if _, _, err := selectEngine("nope"); !rawerr.HasCode(err, rawerr.CodeEngineNotFound) {
		t.Errorf("unknown engine: got %v", err)
	}
}

func TestRunWritesArtifacts(t *testing.T) {
	input := writeFixture(t, [4]float32{2, 0, 1.5, 0})
	dir := filepath.Dir(input)

	cfg := config.Default()
	cfg.Input = input
	cfg.Engine = synthraw.Name
	cfg.DumpMeta = true
	cfg.Stats = true
	cfg.Preview = filepath.Join(dir, "preview.tif")
	cfg.PreviewWidth = 3

	if err := run(&cfg); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, err := os.Stat(cfg.Preview); err != nil {
		t.Errorf("preview missing: %v", err)
	}

	b, err := os.ReadFile(input + ".meta.yaml")
	if err != nil {
		t.Fatalf("metadata missing: %v", err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		t.Fatalf("metadata is not yaml: %v", err)
	}
	if m["make"] != "Synth" || m["engine"] != synthraw.Name || m["orientation"] != "Normal" {
		t.Errorf("metadata: %v", m)
	}
	if _, ok := m["stats"]; !ok {
		t.Error("stats not dumped")
	}
	if !strings.Contains(string(b), "white balance multiplier") {
		t.Error("warning not dumped")
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.Input = filepath.Join(t.TempDir(), "missing.raw")
	if err := run(&cfg); err == nil {
		t.Error("expected error")
	}
}

func TestCollectMetadata(t *testing.T) {
	stream, err := dng.OpenFile(writeFixture(t, [4]float32{2, 1, 1.5, 0}))
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer stream.Close()

	res, err := convert.Decode(stream, synthraw.New(), convert.Options{CropToActiveArea: true})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	m := collectMetadata("frame", synthraw.Name, res)
	if m.Bounds != "(0,0)-(4,2)" || m.ActiveArea != "(0,0)-(4,2)" {
		t.Errorf("areas: %s %s", m.Bounds, m.ActiveArea)
	}
	if m.CFAPattern != "0x94949494" {
		t.Errorf("pattern: %s", m.CFAPattern)
	}
	if len(m.CameraNeutral) != 3 || m.CameraNeutral[0] != 0.5 {
		t.Errorf("neutral: %v", m.CameraNeutral)
	}
	if len(m.ColorMatrix) != 3 || m.ColorMatrix[1][1] != 1 {
		t.Errorf("matrix: %v", m.ColorMatrix)
	}
	if m.BlackLevel[0] != 16 || m.WhiteLevel[3] != 1023 {
		t.Errorf("levels: %v %v", m.BlackLevel, m.WhiteLevel)
	}
	if len(m.Warnings) != 0 {
		t.Errorf("warnings: %v", m.Warnings)
	}
}
