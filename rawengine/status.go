package rawengine

import "fmt"

// Status is an engine return code. Zero is success, negatives are errors.
type Status int

const (
	StatusSuccess                    Status = 0
	StatusUnspecified                Status = -1
	StatusFileUnsupported            Status = -2
	StatusRequestForNonexistentImage Status = -3
	StatusOutOfOrderCall             Status = -4
	StatusNoThumbnail                Status = -5
	StatusUnsupportedThumbnail       Status = -6
	StatusInputClosed                Status = -7
	StatusNotImplemented             Status = -8
	StatusInsufficientMemory         Status = -100007
	StatusDataError                  Status = -100008
	StatusIOError                    Status = -100009
	StatusCancelledByCallback        Status = -100010
	StatusBadCrop                    Status = -100011
	StatusTooBig                     Status = -100012
	StatusMempoolOverflow            Status = -100013
)

var statusText = map[Status]string{
	StatusSuccess:                    "No error",
	StatusUnspecified:                "Unspecified error",
	StatusFileUnsupported:            "Unsupported file format or not RAW file",
	StatusRequestForNonexistentImage: "Request for nonexisting image number",
	StatusOutOfOrderCall:             "Out of order call of libraw function",
	StatusNoThumbnail:                "No thumbnail in file",
	StatusUnsupportedThumbnail:       "Unsupported thumbnail format",
	StatusInputClosed:                "No input stream, or input stream closed",
	StatusNotImplemented:             "Decoder not implemented for this data format",
	StatusInsufficientMemory:         "Unable to allocate memory",
	StatusDataError:                  "Corrupt data or unexpected EOF",
	StatusIOError:                    "Input/output error",
	StatusCancelledByCallback:        "Cancelled by user callback",
	StatusBadCrop:                    "Bad crop box",
	StatusTooBig:                     "Image too big for processing",
	StatusMempoolOverflow:            "Libraw internal mempool overflowed",
}

// Strerror returns the engine's text for a status code.
func Strerror(s Status) string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return "Unknown error code"
}

func (s Status) String() string {
	return Strerror(s)
}

// Err returns nil for success and a *StatusError otherwise.
func (s Status) Err() error {
	if s == StatusSuccess {
		return nil
	}
	return &StatusError{Status: s}
}

// StatusError carries a failing engine status.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (%d)", Strerror(e.Status), int(e.Status))
}
