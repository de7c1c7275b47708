package convert

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/logx"
	"github.com/weaming/rawdng-go/rawengine/synthraw"
	"github.com/weaming/rawdng-go/rawerr"
)

// fakeWriter records the negative it was handed.
type fakeWriter struct {
	got dng.Negative
	err error
}

func (w *fakeWriter) WriteDNG(out io.Writer, neg dng.Negative) error {
	w.got = neg
	if w.err != nil {
		return w.err
	}
	_, err := io.WriteString(out, "DNG "+neg.MakeName())
	return err
}

func fixture(t *testing.T, camMul [4]float32) []byte {
	t.Helper()
	h := &synthraw.Header{
		Make: "Synth", Model: "Convert", CDesc: "RGBG",
		RawWidth: 6, RawHeight: 4, Width: 4, Height: 2,
		TopMargin: 1, LeftMargin: 2,
		Colors: 3, Filters: 0x94949494, PixelAspect: 1,
		Maximum: 4095,
		CamMul:  camMul,
		CamXYZ:  [4][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
	var buf bytes.Buffer
	if err := synthraw.Encode(&buf, h, make([]uint16, h.Samples())); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestRun(t *testing.T) {
	w := &fakeWriter{}
	var out, log bytes.Buffer

	res, err := Run(dng.NewMemoryStream(fixture(t, [4]float32{1, 0, 1, 0})), synthraw.New(), w, &out,
		Options{CropToActiveArea: true, Logger: logx.New(&log)})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out.String() != "DNG Synth" {
		t.Errorf("output: got %q", out.String())
	}
	if w.got == nil || w.got.Bounds().Dx() != 4 || w.got.Bounds().Dy() != 2 {
		t.Errorf("writer got %v", w.got)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != rawerr.CodeDegenerateWhiteBalance {
		t.Errorf("warnings: %v", res.Warnings)
	}
	if !strings.Contains(log.String(), "[write dng] → ok") {
		t.Errorf("log: %q", log.String())
	}
}

func TestRunFailures(t *testing.T) {
	good := fixture(t, [4]float32{1, 1, 1, 1})
	writeErr := errors.New("disk full")

	cases := []struct {
		name       string
		data       []byte
		writer     *fakeWriter
		wantPrefix string
		wantCalled bool
	}{
		{"decode", []byte("garbage"), &fakeWriter{}, "decode: ", false},
		{"write", good, &fakeWriter{err: writeErr}, "write dng: ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Run(dng.NewMemoryStream(tc.data), synthraw.New(), tc.writer, io.Discard, Options{})
			if err == nil || res != nil {
				t.Fatalf("expected failure, got %v, %v", res, err)
			}
			if !strings.HasPrefix(err.Error(), tc.wantPrefix) {
				t.Errorf("error %q lacks step %q", err, tc.wantPrefix)
			}
			if called := tc.writer.got != nil; called != tc.wantCalled {
				t.Errorf("writer called: got %v, want %v", called, tc.wantCalled)
			}
		})
	}

	_, err := Run(dng.NewMemoryStream([]byte("garbage")), synthraw.New(), &fakeWriter{}, io.Discard, Options{})
	if !rawerr.HasCode(err, rawerr.CodeDecodeError) {
		t.Errorf("decode failure lost its code: %v", err)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "frame.synraw")
	if err := os.WriteFile(input, fixture(t, [4]float32{1, 1, 1, 1}), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	output := filepath.Join(dir, "frame.dng")
	if _, err := RunFile(input, output, synthraw.New(), &fakeWriter{}, Options{}); err != nil {
		t.Fatalf("RunFile failed: %v", err)
	}
	if b, err := os.ReadFile(output); err != nil || string(b) != "DNG Synth" {
		t.Errorf("output: %q, %v", b, err)
	}

	failed := filepath.Join(dir, "failed.dng")
	if _, err := RunFile(input, failed, synthraw.New(), &fakeWriter{err: errors.New("boom")}, Options{}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(failed); !os.IsNotExist(err) {
		t.Errorf("partial output left behind: %v", err)
	}
}
