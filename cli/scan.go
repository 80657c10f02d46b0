package cli

import (
	"github.com/spf13/cobra"

	"github.com/Deepayan-S/FoodScanner/app"
	"github.com/Deepayan-S/FoodScanner/ui/presenter"
)

// exit codes for scan
const (
	exitNoBarcode = 2
	exitFailure   = 3
)

func newScanCmd(e *env) *cobra.Command {
	var (
		noLookup bool
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "scan <image>...",
		Short: "Decode barcodes from image files",
		Long: `Decode the barcode in each image and look the product up.

Each image goes through the decoder chain: zbarimg when installed, the
bar-region heuristic, a direct decode, then the rotation/enhancement search.
Exit status is 2 when any image had no barcode and 3 on unreadable images
or lookup failures.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			static := c.Static
			if noLookup {
				static = app.NewStatic(c.Chain, nil, c.Logger.With("component", "static"))
			}
			v := e.view(cmd)
			v.SetVerbose(verbose)
			results := presenter.NewResultPresenter(v)

			code := 0
			for _, path := range args {
				vm := results.Report(static.ScanAndLookup(cmd.Context(), app.FileLoader(path)))
				switch vm.Status {
				case presenter.StatusNoBarcode:
					code = max(code, exitNoBarcode)
				case presenter.StatusError, presenter.StatusLookupFailed:
					code = max(code, exitFailure)
				}
			}
			if code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noLookup, "no-lookup", false, "only decode, skip the product lookup")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the backends tried and their timings")
	return cmd
}
