package decoder

import (
	"context"
	"image"
	"log/slog"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/images"
)

// HeuristicOptions tunes the bar-region locator.
type HeuristicOptions struct {
	CellSize     int     // side of one gradient cell in pixels
	MinCells     int     // smallest connected region accepted as a barcode
	Anisotropy   float64 // horizontal/vertical gradient ratio for a bar-like cell
	MinEnergy    float64 // mean horizontal gradient a cell needs
	Padding      int     // pixels added around the located region
	UpsampleTo   int     // crops are upsampled so their long side reaches this
	SharpenSigma float64
}

// DefaultHeuristicOptions are tuned for phone photos of retail packaging.
func DefaultHeuristicOptions() HeuristicOptions {
	return HeuristicOptions{
		CellSize:     16,
		MinCells:     4,
		Anisotropy:   2.0,
		MinEnergy:    12,
		Padding:      24,
		UpsampleTo:   800,
		SharpenSigma: 1.0,
	}
}

// Heuristic locates a bar-like region itself, then decodes the cleaned-up
// crop with a product-code reader subset. It is one opaque attempt from the
// chain's point of view.
type Heuristic struct {
	opts   HeuristicOptions
	zx     *ZXing
	logger *slog.Logger
}

func NewHeuristic(opts HeuristicOptions, logger *slog.Logger) *Heuristic {
	if logger == nil {
		logger = slog.Default()
	}
	d := DefaultHeuristicOptions()
	if opts.CellSize <= 0 {
		opts.CellSize = d.CellSize
	}
	if opts.MinCells <= 0 {
		opts.MinCells = d.MinCells
	}
	if opts.Anisotropy <= 1 {
		opts.Anisotropy = d.Anisotropy
	}
	if opts.MinEnergy <= 0 {
		opts.MinEnergy = d.MinEnergy
	}
	if opts.Padding < 0 {
		opts.Padding = d.Padding
	}
	if opts.UpsampleTo <= 0 {
		opts.UpsampleTo = d.UpsampleTo
	}
	if opts.SharpenSigma <= 0 {
		opts.SharpenSigma = d.SharpenSigma
	}
	return &Heuristic{
		opts:   opts,
		zx:     NewZXing(HeuristicFormats, false, logger),
		logger: logger,
	}
}

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) AttemptDecode(ctx context.Context, src barcode.Source) barcode.Outcome {
	if src.Empty() {
		return barcode.Fatal(barcode.ErrDecodeFatal.WithMessage("empty image"))
	}
	var last error
	for _, angle := range []int{0, 90} {
		work := src.NRGBA()
		if angle != 0 {
			rotated, err := images.Rotate(work, angle)
			if err != nil {
				return barcode.Fatal(err)
			}
			work = rotated
		}
		rect, ok := Locate(work, h.opts)
		if !ok {
			continue
		}
		crop, used, err := images.ExtractROI(work, rect, h.opts.Padding)
		if err != nil {
			return barcode.Fatal(barcode.ErrDecodeFatal.Wrap(err))
		}
		crop = images.Sharpen(crop, h.opts.SharpenSigma)
		crop = images.ScaleToBounds(crop, h.opts.UpsampleTo, max(h.opts.UpsampleTo, images.DefaultMaxDim))
		h.logger.Debug("heuristic.located", "angle", angle, "rect", used.String())

		out := h.zx.AttemptDecode(ctx, barcode.Adopt(crop))
		if !out.IsNotFound() {
			return out
		}
		last = out.Err
	}
	// nothing located or the crops did not decode
	out := h.zx.AttemptDecode(ctx, src)
	if out.IsNotFound() && out.Err == nil {
		out.Err = last
	}
	return out
}

// Locate returns the bounding box of the largest connected group of cells
// whose horizontal gradient dominates the vertical one (vertical bars).
func Locate(img *image.NRGBA, opts HeuristicOptions) (image.Rectangle, bool) {
	b := img.Bounds()
	w, hgt := b.Dx(), b.Dy()
	cs := opts.CellSize
	cols, rows := w/cs, hgt/cs
	if cols < 1 || rows < 1 {
		return image.Rectangle{}, false
	}

	gray := make([]float64, w*hgt)
	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			gray[y*w+x] = images.Luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
		}
	}

	bar := make([]bool, cols*rows)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			var gx, gy float64
			for y := cy * cs; y < (cy+1)*cs; y++ {
				for x := cx * cs; x < (cx+1)*cs; x++ {
					if x+1 < w {
						gx += abs(gray[y*w+x+1] - gray[y*w+x])
					}
					if y+1 < hgt {
						gy += abs(gray[(y+1)*w+x] - gray[y*w+x])
					}
				}
			}
			n := float64(cs * cs)
			gx, gy = gx/n, gy/n
			bar[cy*cols+cx] = gx >= opts.MinEnergy && gx >= opts.Anisotropy*gy
		}
	}

	best, bestSize := image.Rectangle{}, 0
	seen := make([]bool, len(bar))
	stack := make([]int, 0, 64)
	for i, ok := range bar {
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		stack = append(stack[:0], i)
		size := 0
		minX, minY, maxX, maxY := cols, rows, -1, -1
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			x, y := c%cols, c/cols
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
			for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				if n[0] < 0 || n[1] < 0 || n[0] >= cols || n[1] >= rows {
					continue
				}
				j := n[1]*cols + n[0]
				if bar[j] && !seen[j] {
					seen[j] = true
					stack = append(stack, j)
				}
			}
		}
		if size > bestSize {
			bestSize = size
			best = image.Rect(minX*cs, minY*cs, (maxX+1)*cs, (maxY+1)*cs)
		}
	}
	if bestSize < opts.MinCells {
		return image.Rectangle{}, false
	}
	return best, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
