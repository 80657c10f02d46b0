package view

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/Deepayan-S/FoodScanner/ui/presenter"
	"github.com/Deepayan-S/FoodScanner/ui/theme"
)

// RootView renders presenter output on a terminal or as JSON lines.
// It implements the presenter view interfaces and is safe for concurrent use.
type RootView struct {
	mu      sync.Mutex
	out     io.Writer
	asJSON  bool
	verbose bool
	enc     *json.Encoder
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewRootView writes to out. asJSON selects JSON lines; otherwise output is
// human readable and coloured only when out is a terminal.
func NewRootView(out io.Writer, asJSON bool) *RootView {
	if out == nil {
		out = os.Stdout
	}
	theme.SetColor(!asJSON && IsTerminal(out))
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	return &RootView{out: out, asJSON: asJSON, enc: enc}
}

// JSON reports whether the view emits JSON lines.
func (v *RootView) JSON() bool { return v.asJSON }

// SetVerbose also prints per-tier timings for static scans.
func (v *RootView) SetVerbose(b bool) {
	v.mu.Lock()
	v.verbose = b
	v.mu.Unlock()
}

// ShowResult implements presenter.ResultView.
func (v *RootView) ShowResult(vm presenter.ViewModel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.asJSON {
		if vm.Status == presenter.StatusLoading {
			return
		}
		_ = v.enc.Encode(vm)
		return
	}
	var b strings.Builder
	if vm.Source != "" {
		fmt.Fprintf(&b, "%s\n", theme.Paint(theme.RoleMuted, vm.Source))
	}
	switch vm.Status {
	case presenter.StatusLoading:
		fmt.Fprintf(&b, "%s %s\n", theme.Paint(theme.RoleAccent, vm.Barcode), theme.Paint(theme.RoleMuted, vm.Message))
	case presenter.StatusFound:
		fmt.Fprintf(&b, "%s %s\n", theme.Paint(theme.RoleTitle, "Barcode:"), barcodeText(vm))
		if c := vm.Product; c != nil {
			fmt.Fprintf(&b, "  %s\n", theme.Paint(theme.RoleTitle, c.Name))
			fmt.Fprintf(&b, "  %s\n", c.Ingredients)
			fmt.Fprintf(&b, "  %s\n", c.Allergens)
			fmt.Fprintf(&b, "  %s\n", theme.Paint(theme.NutriScore(strings.TrimPrefix(c.NutriScore, "Nutri-Score: ")), c.NutriScore))
			if c.ImageURL != "" {
				fmt.Fprintf(&b, "  %s\n", theme.Paint(theme.RoleMuted, c.ImageURL))
			}
		}
	case presenter.StatusProductNotFound, presenter.StatusNoBarcode:
		if vm.Barcode != "" {
			fmt.Fprintf(&b, "%s %s\n", theme.Paint(theme.RoleTitle, "Barcode:"), barcodeText(vm))
		}
		fmt.Fprintf(&b, "%s\n", theme.Paint(theme.RoleWarn, vm.Message))
	default:
		if vm.Barcode != "" {
			fmt.Fprintf(&b, "%s %s\n", theme.Paint(theme.RoleTitle, "Barcode:"), barcodeText(vm))
		}
		fmt.Fprintf(&b, "%s\n", theme.Paint(theme.RoleError, vm.Message))
		if v.verbose && vm.Error != "" {
			fmt.Fprintf(&b, "  %s\n", theme.Paint(theme.RoleMuted, vm.Error))
		}
	}
	if v.verbose {
		for _, t := range vm.Tiers {
			fmt.Fprintf(&b, "  %s\n", theme.Paint(theme.RoleMuted, fmt.Sprintf("%-10s %-10s %s", t.Backend, t.Outcome, time.Duration(t.DurationMS)*time.Millisecond)))
		}
	}
	_, _ = io.WriteString(v.out, b.String())
}

func barcodeText(vm presenter.ViewModel) string {
	s := theme.Paint(theme.RoleAccent, vm.Barcode)
	if vm.Format != "" {
		s += " " + theme.Paint(theme.RoleMuted, "("+vm.Format+")")
	}
	return s
}

// SetStateLabel implements presenter.StateView.
func (v *RootView) SetStateLabel(s string) {
	if v.asJSON {
		return
	}
	v.println(theme.Paint(theme.RoleTitle, s))
}

// SetHint implements presenter.LiveView.
func (v *RootView) SetHint(s string) {
	if v.asJSON {
		return
	}
	v.println(theme.Paint(theme.RoleMuted, s))
}

// SetSession implements presenter.SessionView. Only terminals get the
// running clock; it is redrawn in place.
func (v *RootView) SetSession(session, total time.Duration, found, failed int) {
	if v.asJSON || !theme.Color() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "\r\033[K%s", sessionLine(session, total, found, failed))
}

// Print writes a plain line, or v as JSON in JSON mode.
func (v *RootView) Print(human string, data any) {
	if v.asJSON {
		v.mu.Lock()
		_ = v.enc.Encode(data)
		v.mu.Unlock()
		return
	}
	v.println(human)
}

func (v *RootView) println(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if theme.Color() {
		// clear any in-place session line first
		_, _ = io.WriteString(v.out, "\r\033[K")
	}
	_, _ = io.WriteString(v.out, s+"\n")
}

var (
	_ presenter.ResultView  = (*RootView)(nil)
	_ presenter.StateView   = (*RootView)(nil)
	_ presenter.LiveView    = (*RootView)(nil)
	_ presenter.SessionView = (*RootView)(nil)
)
