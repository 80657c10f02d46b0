package decoder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
)

// zbarimg exits with this status when no symbol was detected.
const zbarNoSymbols = 4

// Native delegates to the platform ZBar detector (zbarimg). When the binary
// is missing or the call fails the backend reports NotFound and logs a
// warning so the chain falls through to the next tier.
type Native struct {
	command string
	formats []barcode.Format
	logger  *slog.Logger

	once     sync.Once
	resolved string
	lookErr  error
}

// NewNative resolves command lazily on first use. Empty command means
// "zbarimg" on PATH. Formats outside the zbar allow-list are dropped.
func NewNative(command string, formats []barcode.Format, logger *slog.Logger) *Native {
	if logger == nil {
		logger = slog.Default()
	}
	if command == "" {
		command = "zbarimg"
	}
	var keep []barcode.Format
	for _, f := range formats {
		if _, ok := zbarNames[f]; ok {
			keep = append(keep, f)
		}
	}
	if len(keep) == 0 {
		keep = append(keep, NativeFormats...)
	}
	return &Native{command: command, formats: keep, logger: logger}
}

func (n *Native) Name() string { return "native" }

// Available reports whether the detector binary could be resolved.
func (n *Native) Available() bool {
	_, err := n.resolve()
	return err == nil
}

func (n *Native) resolve() (string, error) {
	n.once.Do(func() {
		n.resolved, n.lookErr = exec.LookPath(n.command)
		if n.lookErr != nil {
			n.logger.Warn("native.unavailable", "command", n.command, "error", n.lookErr)
		}
	})
	return n.resolved, n.lookErr
}

func (n *Native) args(file string) []string {
	args := []string{"--quiet", "-Sdisable"}
	for _, f := range n.formats {
		args = append(args, "-S"+zbarNames[f]+".enable")
	}
	return append(args, file)
}

func (n *Native) AttemptDecode(ctx context.Context, src barcode.Source) barcode.Outcome {
	if err := ctx.Err(); err != nil {
		return barcode.Fatal(err)
	}
	if src.Empty() {
		return barcode.Fatal(barcode.ErrDecodeFatal.WithMessage("empty image"))
	}
	bin, err := n.resolve()
	if err != nil {
		return barcode.NotFound(err)
	}

	tmp, err := os.CreateTemp("", "foodscanner-*.png")
	if err != nil {
		n.logger.Warn("native.tempfile", "error", err)
		return barcode.NotFound(err)
	}
	defer os.Remove(tmp.Name())
	if err := writePNG(tmp, src.Image()); err != nil {
		n.logger.Warn("native.encode", "file", tmp.Name(), "error", err)
		return barcode.NotFound(fmt.Errorf("encode frame: %w", err))
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, n.args(tmp.Name())...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return barcode.Fatal(ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == zbarNoSymbols {
			return barcode.NotFound(nil)
		}
		n.logger.Warn("native.failed", "error", err, "stderr", strings.TrimSpace(stderr.String()))
		return barcode.NotFound(fmt.Errorf("zbarimg: %w", err))
	}
	if res, ok := parseZbar(out); ok {
		return barcode.Found(res)
	}
	return barcode.NotFound(nil)
}

// writePNG encodes img into w and closes it.
func writePNG(w io.WriteCloser, img image.Image) error {
	err := imaging.Encode(w, img, imaging.PNG)
	return errors.Join(err, w.Close())
}

// parseZbar returns the first "SYMBOL:data" line of zbarimg output.
func parseZbar(out []byte) (barcode.Result, bool) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		sym, data, ok := strings.Cut(line, ":")
		if !ok || data == "" {
			continue
		}
		f, known := zbarSymbols[sym]
		if !known {
			continue
		}
		return barcode.Result{Text: data, Format: f}, true
	}
	return barcode.Result{}, false
}
