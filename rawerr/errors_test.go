package rawerr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorMatchesByCode(t *testing.T) {
	err := fmt.Errorf("probe pass: %w", Wrap(CodeDecodeError, "open stream", io.ErrUnexpectedEOF))

	if !HasCode(err, CodeDecodeError) {
		t.Fatalf("expected %s in chain of %v", CodeDecodeError, err)
	}
	if HasCode(err, CodeStreamExhausted) {
		t.Fatalf("unexpected %s in chain of %v", CodeStreamExhausted, err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("cause not reachable through %v", err)
	}
	if got := CodeOf(err); got != CodeDecodeError {
		t.Errorf("CodeOf mismatch: got %s, want %s", got, CodeDecodeError)
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Errorf("CodeOf mismatch: got %s, want %s", got, CodeUnknown)
	}
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{New(CodeInvalidGeometry, "empty active area"), "empty active area"},
		{Wrap(CodeAllocationFailed, "allocate image", errors.New("too large")), "allocate image: too large"},
		{WithMetadata(CodeUnsupportedFormatToken, "scan %s", map[string]string{"format": "%s"}), "scan %s"},
	}

	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("message mismatch: got %q, want %q", got, tc.want)
		}
	}
}

func TestIsWarning(t *testing.T) {
	if !CodeDegenerateCalibration.IsWarning() || !CodeDegenerateWhiteBalance.IsWarning() {
		t.Error("calibration codes must be warnings")
	}
	if CodeDecodeError.IsWarning() {
		t.Error("decode error must not be a warning")
	}
}
