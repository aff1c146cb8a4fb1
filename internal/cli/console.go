package cli

import (
	"github.com/spf13/cobra"

	"github.com/mr1hm/go-disaster-reports/internal/console"
)

var (
	consoleImport      string
	consoleWholeEndDay bool
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive report menu",
	Long: `Console opens a menu to submit reports, list them and search by type,
period or location.

Example:
  reportctl console
  reportctl console --import reports.yaml --whole-end-day`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, mgr, err := newStore()
		if err != nil {
			return err
		}
		if consoleImport != "" {
			if err := preload(cmd, mgr, consoleImport); err != nil {
				return err
			}
		}

		c := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), st, mgr)
		c.WholeEndDay = consoleWholeEndDay
		return c.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().StringVar(&consoleImport, "import", "", "YAML file of reports to load before the menu starts")
	consoleCmd.Flags().BoolVar(&consoleWholeEndDay, "whole-end-day", false, "include the entire end date in period searches")
}
