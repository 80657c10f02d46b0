package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Deepayan-S/FoodScanner/config"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage FoodScanner configuration",
		Long: `Manage FoodScanner configuration.

Available commands:
  show              - Show the effective configuration
  init [path]       - Write the default configuration`,
		DisableFlagsInUseLine: true,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := e.view(cmd)
			if v.JSON() {
				v.Print("", e.cfg)
				return nil
			}
			data, err := yaml.Marshal(e.cfg)
			if err != nil {
				return err
			}
			loc := e.configPath
			if loc == "" {
				loc = "(defaults)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# Location: %s\n%s", loc, data)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			e.view(cmd).Print("Wrote "+path, map[string]string{"path": path})
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
