package barcode

import "fmt"

// Kind enumerates the three possible results of a decode attempt.
type Kind int

const (
	KindNotFound Kind = iota
	KindFound
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindNotFound:
		return "not_found"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is returned by every backend and orchestrator.
// Result is only meaningful for KindFound. Err holds the last retryable
// failure for KindNotFound (may be nil) and the reason for KindFatal.
type Outcome struct {
	Kind   Kind
	Result Result
	Err    error
}

// Found wraps a successful decode.
func Found(r Result) Outcome { return Outcome{Kind: KindFound, Result: r} }

// NotFound reports that no symbol was located. cause is diagnostic only.
func NotFound(cause error) Outcome { return Outcome{Kind: KindNotFound, Err: cause} }

// Fatal reports a failure that parameter variation cannot fix.
func Fatal(err error) Outcome {
	if err == nil {
		err = ErrDecodeFatal
	}
	return Outcome{Kind: KindFatal, Err: err}
}

func (o Outcome) IsFound() bool    { return o.Kind == KindFound }
func (o Outcome) IsNotFound() bool { return o.Kind == KindNotFound }
func (o Outcome) IsFatal() bool    { return o.Kind == KindFatal }

// Error converts the outcome to the error taxonomy. It returns nil when found.
func (o Outcome) Error() error {
	switch o.Kind {
	case KindFound:
		return nil
	case KindNotFound:
		return ErrNotFound.Wrap(o.Err)
	default:
		return ErrDecodeFatal.Wrap(o.Err)
	}
}

func (o Outcome) String() string {
	switch o.Kind {
	case KindFound:
		return fmt.Sprintf("found %s %q", o.Result.Format, o.Result.Text)
	case KindNotFound:
		if o.Err != nil {
			return "not_found: " + o.Err.Error()
		}
		return "not_found"
	default:
		return "fatal: " + o.Err.Error()
	}
}
