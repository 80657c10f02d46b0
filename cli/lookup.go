package cli

import (
	"github.com/spf13/cobra"

	"github.com/Deepayan-S/FoodScanner/lookup"
	"github.com/Deepayan-S/FoodScanner/ui/presenter"
)

func newLookupCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <barcode>",
		Short: "Look a barcode up in Open Food Facts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			code := args[0]
			results := presenter.NewResultPresenter(e.view(cmd))
			p, err := c.Lookup.Lookup(cmd.Context(), code)
			var card *lookup.Card
			if err == nil {
				cc := lookup.NewCard(p)
				card = &cc
			}
			vm := presenter.FromLookup(code, card, err)
			results.Show(vm)
			switch vm.Status {
			case presenter.StatusProductNotFound:
				return exitError{code: exitNoBarcode}
			case presenter.StatusLookupFailed:
				return exitError{code: exitFailure}
			}
			return nil
		},
	}
}
