package barcode

import "fmt"

// ScanError is a stable, machine-readable error class. Two ScanErrors match
// under errors.Is when their codes are equal.
type ScanError struct {
	Code    string
	Message string
	Err     error
}

func (e *ScanError) Error() string {
	msg := e.Code
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ScanError) Is(target error) bool {
	t, ok := target.(*ScanError)
	return ok && e.Code == t.Code
}

func (e *ScanError) Unwrap() error { return e.Err }

// WithMessage returns a copy of the class carrying a specific message.
func (e *ScanError) WithMessage(msg string) *ScanError {
	return &ScanError{Code: e.Code, Message: msg}
}

// WithMessagef is WithMessage with formatting.
func (e *ScanError) WithMessagef(format string, args ...any) *ScanError {
	return &ScanError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a copy of the class wrapping cause. A cause that already
// belongs to the same class is returned unchanged.
func (e *ScanError) Wrap(cause error) error {
	if cause == nil {
		return &ScanError{Code: e.Code, Message: e.Message}
	}
	if se, ok := cause.(*ScanError); ok && se.Code == e.Code {
		return se
	}
	return &ScanError{Code: e.Code, Message: e.Message, Err: cause}
}

var (
	// ErrNotFound: no symbol located. Recoverable, drives retry/fallback.
	ErrNotFound = &ScanError{Code: "E_NOT_FOUND"}
	// ErrDecodeFatal: malformed image or backend fault. Aborts the scan.
	ErrDecodeFatal = &ScanError{Code: "E_DECODE_FATAL"}
	// ErrCaptureUnavailable: no capture device or permission denied.
	ErrCaptureUnavailable = &ScanError{Code: "E_CAPTURE_UNAVAILABLE"}
	// ErrLookupFailure: product database unreachable or malformed response.
	ErrLookupFailure = &ScanError{Code: "E_LOOKUP_FAILURE"}
	// ErrProductNotFound: the database has no product for the barcode.
	ErrProductNotFound = &ScanError{Code: "E_PRODUCT_NOT_FOUND"}
)
