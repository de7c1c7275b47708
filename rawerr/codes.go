// Package rawerr provides the structured error kinds shared by the stream
// bridge, the engine session and the image adapter.
package rawerr

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error that carries no code.
	CodeUnknown Code = "UNKNOWN"

	// Stream errors
	CodeStreamExhausted        Code = "STREAM_EXHAUSTED"
	CodeUnsupportedFormatToken Code = "UNSUPPORTED_FORMAT_TOKEN"

	// Engine errors
	CodeDecodeError    Code = "DECODE_ERROR"
	CodeOutOfOrderCall Code = "OUT_OF_ORDER_CALL"
	CodeEngineNotFound Code = "ENGINE_NOT_FOUND"

	// Image errors
	CodeInvalidGeometry  Code = "INVALID_GEOMETRY"
	CodeAllocationFailed Code = "ALLOCATION_FAILED"

	// Warnings: the image is usable but uncalibrated
	CodeDegenerateCalibration  Code = "DEGENERATE_CALIBRATION"
	CodeDegenerateWhiteBalance Code = "DEGENERATE_WHITE_BALANCE"
)

// IsWarning reports whether the code describes a recoverable quality problem.
func (c Code) IsWarning() bool {
	switch c {
	case CodeDegenerateCalibration, CodeDegenerateWhiteBalance:
		return true
	default:
		return false
	}
}
