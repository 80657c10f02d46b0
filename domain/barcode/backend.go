package barcode

import "context"

// Backend is one decoding strategy. AttemptDecode must not mutate src.
// A missing symbol is NotFound, never Fatal.
type Backend interface {
	Name() string
	AttemptDecode(ctx context.Context, src Source) Outcome
}

// BinarizingBackend can decode with an explicit binarization method.
// Only backends of this kind are driven through the parameter search.
type BinarizingBackend interface {
	Backend
	AttemptDecodeWith(ctx context.Context, src Source, b Binarization) Outcome
}

// BackendFunc adapts a function to Backend.
type BackendFunc struct {
	Label string
	Fn    func(ctx context.Context, src Source) Outcome
}

func (f BackendFunc) Name() string { return f.Label }

func (f BackendFunc) AttemptDecode(ctx context.Context, src Source) Outcome {
	return f.Fn(ctx, src)
}
