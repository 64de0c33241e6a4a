package cmd

import (
	"dbconsole/grid"
	"dbconsole/logger"
	"dbconsole/tui"

	"github.com/spf13/cobra"
)

var browseFilters []string

var browseCmd = &cobra.Command{
	Use:   "browse <table>",
	Short: "Browse a table interactively",
	Long: `Opens an interactive grid on a catalog table.
Keys: n/p next/previous page, +/- page size, r refresh, arrows to move, q quit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Executing 'browse' command for table: %s", args[0])
		filters, err := parseFilters(browseFilters)
		if err != nil {
			return err
		}
		// notices are shown in the status line from the result itself
		view, spec, err := newGridService().NewView(args[0], grid.Discard)
		if err != nil {
			return err
		}
		for k, v := range filters {
			view.SetFilter(k, v)
		}
		return tui.Run(cmd.Context(), view, spec.Title)
	},
}

func init() {
	browseCmd.Flags().StringArrayVarP(&browseFilters, "filter", "f", nil, "backend filter as key=value (repeatable)")
	rootCmd.AddCommand(browseCmd)
}
