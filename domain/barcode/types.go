package barcode

import (
	"fmt"
	"strings"
)

// Format identifies a barcode symbology.
type Format int

const (
	FormatUnknown Format = iota
	FormatEAN13
	FormatEAN8
	FormatUPCA
	FormatUPCE
	FormatCode128
	FormatCode39
	FormatITF
	FormatCodabar
	FormatQR
)

func (f Format) String() string {
	switch f {
	case FormatEAN13:
		return "ean_13"
	case FormatEAN8:
		return "ean_8"
	case FormatUPCA:
		return "upc_a"
	case FormatUPCE:
		return "upc_e"
	case FormatCode128:
		return "code_128"
	case FormatCode39:
		return "code_39"
	case FormatITF:
		return "itf"
	case FormatCodabar:
		return "codabar"
	case FormatQR:
		return "qr_code"
	default:
		return "unknown"
	}
}

// ParseFormat accepts the String form as well as common dashed spellings
// ("ean-13", "EAN13", "code-128").
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "ean13":
		return FormatEAN13, nil
	case "ean8":
		return FormatEAN8, nil
	case "upca":
		return FormatUPCA, nil
	case "upce":
		return FormatUPCE, nil
	case "code128":
		return FormatCode128, nil
	case "code39":
		return FormatCode39, nil
	case "itf", "i25", "i2/5":
		return FormatITF, nil
	case "codabar":
		return FormatCodabar, nil
	case "qr", "qrcode":
		return FormatQR, nil
	}
	return FormatUnknown, fmt.Errorf("unknown barcode format %q", s)
}

// ParseFormats parses a list of format names, rejecting unknown entries.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ProductFormats is the default allow-list for retail product codes.
var ProductFormats = []Format{
	FormatEAN13,
	FormatEAN8,
	FormatUPCA,
	FormatUPCE,
	FormatCode128,
	FormatCode39,
	FormatITF,
}

// Result is a decoded barcode.
type Result struct {
	Text   string `json:"text"`
	Format Format `json:"-"`
}

// FormatName is the JSON-facing symbology name.
func (r Result) FormatName() string { return r.Format.String() }

// Binarization selects how a grayscale luminance buffer is turned into
// black/white modules before symbol decoding.
type Binarization int

const (
	Hybrid Binarization = iota
	GlobalHistogram
)

func (b Binarization) String() string {
	switch b {
	case Hybrid:
		return "hybrid"
	case GlobalHistogram:
		return "global_histogram"
	default:
		return "unknown"
	}
}

// ParseBinarization maps a config name to a Binarization.
func ParseBinarization(s string) (Binarization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hybrid":
		return Hybrid, nil
	case "global_histogram", "globalhistogram", "global":
		return GlobalHistogram, nil
	}
	return Hybrid, fmt.Errorf("unknown binarization %q", s)
}
