package decoder

import (
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
)

// HeuristicFormats is the reader subset used on located crops.
var HeuristicFormats = []barcode.Format{
	barcode.FormatEAN13,
	barcode.FormatEAN8,
	barcode.FormatCode128,
	barcode.FormatUPCA,
	barcode.FormatUPCE,
}

// NativeFormats is the zbar allow-list.
var NativeFormats = []barcode.Format{
	barcode.FormatEAN13,
	barcode.FormatEAN8,
	barcode.FormatUPCA,
	barcode.FormatUPCE,
	barcode.FormatCode128,
	barcode.FormatCode39,
	barcode.FormatITF,
	barcode.FormatCodabar,
}

var toZXing = map[barcode.Format]gozxing.BarcodeFormat{
	barcode.FormatEAN13:   gozxing.BarcodeFormat_EAN_13,
	barcode.FormatEAN8:    gozxing.BarcodeFormat_EAN_8,
	barcode.FormatUPCA:    gozxing.BarcodeFormat_UPC_A,
	barcode.FormatUPCE:    gozxing.BarcodeFormat_UPC_E,
	barcode.FormatCode128: gozxing.BarcodeFormat_CODE_128,
	barcode.FormatCode39:  gozxing.BarcodeFormat_CODE_39,
	barcode.FormatITF:     gozxing.BarcodeFormat_ITF,
	barcode.FormatCodabar: gozxing.BarcodeFormat_CODABAR,
	barcode.FormatQR:      gozxing.BarcodeFormat_QR_CODE,
}

func fromZXing(f gozxing.BarcodeFormat) barcode.Format {
	for k, v := range toZXing {
		if v == f {
			return k
		}
	}
	return barcode.FormatUnknown
}

// newReader returns a fresh reader for f. Readers keep per-decode scratch
// state, so each decode call builds its own set.
func newReader(f barcode.Format) gozxing.Reader {
	switch f {
	case barcode.FormatEAN13:
		return oned.NewEAN13Reader()
	case barcode.FormatEAN8:
		return oned.NewEAN8Reader()
	case barcode.FormatUPCA:
		return oned.NewUPCAReader()
	case barcode.FormatUPCE:
		return oned.NewUPCEReader()
	case barcode.FormatCode128:
		return oned.NewCode128Reader()
	case barcode.FormatCode39:
		return oned.NewCode39Reader()
	case barcode.FormatITF:
		return oned.NewITFReader()
	}
	return nil
}

var zbarNames = map[barcode.Format]string{
	barcode.FormatEAN13:   "ean13",
	barcode.FormatEAN8:    "ean8",
	barcode.FormatUPCA:    "upca",
	barcode.FormatUPCE:    "upce",
	barcode.FormatCode128: "code128",
	barcode.FormatCode39:  "code39",
	barcode.FormatITF:     "i25",
	barcode.FormatCodabar: "codabar",
}

// zbarSymbols maps zbarimg's output prefixes.
var zbarSymbols = map[string]barcode.Format{
	"EAN-13":   barcode.FormatEAN13,
	"EAN-8":    barcode.FormatEAN8,
	"UPC-A":    barcode.FormatUPCA,
	"UPC-E":    barcode.FormatUPCE,
	"CODE-128": barcode.FormatCode128,
	"CODE-39":  barcode.FormatCode39,
	"I2/5":     barcode.FormatITF,
	"CODABAR":  barcode.FormatCodabar,
	"QR-Code":  barcode.FormatQR,
}
