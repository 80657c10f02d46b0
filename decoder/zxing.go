package decoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/makiuchi-d/gozxing"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
)

// ZXing is the general-purpose backend. It is the only backend the search
// engine drives with an explicit binarization method.
type ZXing struct {
	formats   []barcode.Format
	tryHarder bool
	logger    *slog.Logger
}

// NewZXing builds a backend restricted to formats. Formats without a 1D
// reader are ignored; an empty list means barcode.ProductFormats.
func NewZXing(formats []barcode.Format, tryHarder bool, logger *slog.Logger) *ZXing {
	if logger == nil {
		logger = slog.Default()
	}
	var keep []barcode.Format
	for _, f := range formats {
		if newReader(f) != nil {
			keep = append(keep, f)
		}
	}
	if len(keep) == 0 {
		keep = append(keep, barcode.ProductFormats...)
	}
	return &ZXing{formats: keep, tryHarder: tryHarder, logger: logger}
}

func (z *ZXing) Name() string { return "zxing" }

// Formats returns the reader order.
func (z *ZXing) Formats() []barcode.Format {
	return append([]barcode.Format(nil), z.formats...)
}

// AttemptDecode decodes with hybrid binarization.
func (z *ZXing) AttemptDecode(ctx context.Context, src barcode.Source) barcode.Outcome {
	return z.AttemptDecodeWith(ctx, src, barcode.Hybrid)
}

// AttemptDecodeWith runs every configured reader over one binarized bitmap.
// Reader exceptions (not found, format, checksum) mean "not located here";
// any other error or a panic inside the library is fatal.
func (z *ZXing) AttemptDecodeWith(ctx context.Context, src barcode.Source, b barcode.Binarization) (out barcode.Outcome) {
	if err := ctx.Err(); err != nil {
		return barcode.Fatal(err)
	}
	if src.Empty() {
		return barcode.Fatal(barcode.ErrDecodeFatal.WithMessage("empty image"))
	}
	defer func() {
		if r := recover(); r != nil {
			z.logger.Error("zxing.panic", "panic", r, "binarizer", b.String())
			out = barcode.Fatal(barcode.ErrDecodeFatal.WithMessagef("decoder panic: %v", r))
		}
	}()

	bmp, err := binaryBitmap(src.Image(), b)
	if err != nil {
		return barcode.Fatal(barcode.ErrDecodeFatal.Wrap(err))
	}
	hints := map[gozxing.DecodeHintType]interface{}{}
	if z.tryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	var last error
	for _, f := range z.formats {
		res, err := newReader(f).Decode(bmp, hints)
		if err == nil {
			return barcode.Found(barcode.Result{
				Text:   res.GetText(),
				Format: fromZXing(res.GetBarcodeFormat()),
			})
		}
		var re gozxing.ReaderException
		if errors.As(err, &re) {
			last = err
			continue
		}
		return barcode.Fatal(barcode.ErrDecodeFatal.Wrap(fmt.Errorf("%s reader: %w", f, err)))
	}
	return barcode.NotFound(last)
}

func binaryBitmap(img image.Image, b barcode.Binarization) (*gozxing.BinaryBitmap, error) {
	lum := gozxing.NewLuminanceSourceFromImage(img)
	switch b {
	case barcode.GlobalHistogram:
		return gozxing.NewBinaryBitmap(gozxing.NewGlobalHistgramBinarizer(lum))
	default:
		return gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(lum))
	}
}
