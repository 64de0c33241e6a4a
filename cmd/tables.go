package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:     "tables",
	Short:   "List the tables in the catalog",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		writer := new(tabwriter.Writer)
		writer.Init(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(writer, "NAME\tTITLE\tMETHOD\tENDPOINT\tCOUNT_ENDPOINT\tKEY_FIELD")
		fmt.Fprintln(writer, "----\t-----\t------\t--------\t--------------\t---------")
		for _, spec := range newGridService().Tables() {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
				spec.Name, spec.Title, spec.Method, spec.Endpoint, dashIfEmpty(spec.CountEndpoint), dashIfEmpty(spec.KeyField))
		}
		return writer.Flush()
	},
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
