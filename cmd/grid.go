package cmd

import (
	"errors"

	"dbconsole/grid"
	"dbconsole/logger"

	"github.com/spf13/cobra"
)

var (
	gridPage     int
	gridPageSize int
	gridFilters  []string
	gridOutput   string
)

var gridCmd = &cobra.Command{
	Use:   "grid <table>",
	Short: "Print one page of a table",
	Long: `Fetches one page of a catalog table from the monitoring backend and prints it.
Use 'dbconsole tables' for the table names. Extra backend filters are passed with
--filter key=value and may be repeated.`,
	Example: `  dbconsole grid slow_queries --pagesize 20
  dbconsole grid node_status --filter role=primary --output yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Executing 'grid' command for table: %s", args[0])

		filters, err := parseFilters(gridFilters)
		if err != nil {
			return err
		}

		view, spec, err := newGridService().NewView(args[0], grid.Discard)
		if err != nil {
			return err
		}
		for k, v := range filters {
			view.SetFilter(k, v)
		}
		if cmd.Flags().Changed("pagesize") {
			view.State.SetPageSize(gridPageSize)
		}
		view.State.SetPage(gridPage)

		r := view.Load(cmd.Context())
		if r.Failed() {
			return errors.New(r.Notice)
		}
		return renderGrid(cmd.OutOrStdout(), gridOutput, spec, view.State, r)
	},
}

func init() {
	gridCmd.Flags().IntVar(&gridPage, "page", 1, "page number (1-based)")
	gridCmd.Flags().IntVar(&gridPageSize, "pagesize", grid.DefaultPageSize, "rows per page (default from the stored layout or config)")
	gridCmd.Flags().StringArrayVarP(&gridFilters, "filter", "f", nil, "backend filter as key=value (repeatable)")
	gridCmd.Flags().StringVarP(&gridOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(gridCmd)
}
