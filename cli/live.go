package cli

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Deepayan-S/FoodScanner/domain/stream"
	"github.com/Deepayan-S/FoodScanner/ui/model"
	"github.com/Deepayan-S/FoodScanner/ui/presenter"
)

const uiTick = 200 * time.Millisecond

func newLiveCmd(e *env) *cobra.Command {
	var (
		source, dir, url, backend string
		intervalMS                int
		loop, once, noLookup      bool
	)
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Scan continuously from a screen region, directory or camera snapshot URL",
		Long: `Scan frames from a capture source until a barcode is found.

Sources:
  screen    - a screen region (live.selection_* in the config, whole screen if unset)
  dir       - replay image files from a directory in name order
  snapshot  - poll an IP camera snapshot URL

Press Enter to stop or restart scanning and q then Enter to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			lc := &e.cfg.Live
			if f.Changed("source") {
				lc.Source = source
			}
			if f.Changed("dir") {
				lc.Dir = dir
			}
			if f.Changed("url") {
				lc.URL = url
			}
			if f.Changed("backend") {
				lc.Backend = backend
			}
			if f.Changed("interval") {
				lc.IntervalMS = intervalMS
			}
			if f.Changed("loop") {
				lc.Loop = loop
			}
			if noLookup {
				lc.AutoLookup = false
			}
			c, err := e.container()
			if err != nil {
				return err
			}

			live := c.NewLive()
			defer live.Close()
			v := e.view(cmd)
			states := presenter.NewStatePresenter(live, v)
			live.AddListener(states.OnState)
			if lc.AutoLookup {
				live.AddListener(func(_, next stream.State) {
					if next == stream.StateFound {
						v.SetHint(presenter.MsgLoading)
					}
				})
			}
			ctl := presenter.NewLivePresenter(&model.LiveModel{}, live, v)
			results := presenter.NewResultPresenter(v)
			uiLoop := presenter.NewLoop(presenter.NewSessionPresenter(model.NewSessionModel(), live, v), states, nil)

			var keys <-chan string
			if !once {
				keys = readLines(cmd.InOrStdin())
			}
			ctl.Enable()
			ticker := time.NewTicker(uiTick)
			defer ticker.Stop()
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
					uiLoop.Tick()
				case ev := <-live.Events():
					uiLoop.Tick()
					ctl.Finished()
					vm := results.LiveEvent(ev)
					if once {
						if vm.Status == presenter.StatusError || vm.Status == presenter.StatusLookupFailed {
							return exitError{code: exitFailure}
						}
						return nil
					}
				case line, ok := <-keys:
					if !ok {
						keys = nil
						continue
					}
					if strings.EqualFold(strings.TrimSpace(line), "q") {
						return nil
					}
					ctl.Toggle()
				}
			}
		},
	}
	f := cmd.Flags()
	f.StringVar(&source, "source", "", "capture source: screen, dir or snapshot")
	f.StringVar(&dir, "dir", "", "directory of frames for the dir source")
	f.StringVar(&url, "url", "", "snapshot URL for the snapshot source")
	f.StringVar(&backend, "backend", "", "per-frame decoder: zxing, heuristic, native or chain")
	f.IntVar(&intervalMS, "interval", 0, "milliseconds between frames")
	f.BoolVar(&loop, "loop", false, "replay the directory forever")
	f.BoolVar(&once, "once", false, "exit after the first session ends")
	f.BoolVar(&noLookup, "no-lookup", false, "only decode, skip the product lookup")
	return cmd
}

// readLines forwards stdin lines until EOF.
func readLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}
