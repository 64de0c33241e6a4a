package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"dbconsole/database"
	"dbconsole/models"

	"github.com/spf13/cobra"
)

var (
	layoutColumn   string
	layoutWidth    int
	layoutHidden   bool
	layoutPageSize int
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Manage stored grid layouts (column widths, visibility, page size)",
}

var layoutShowCmd = &cobra.Command{
	Use:   "show [table]",
	Short: "Print stored layouts as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v any
		if len(args) == 1 {
			layout, err := database.GetTableLayout(args[0])
			if err != nil {
				return err
			}
			if layout == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No layout stored for %s.\n", args[0])
				return nil
			}
			v = layout
		} else {
			layouts, err := database.GetTableLayouts()
			if err != nil {
				return err
			}
			v = layouts
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	},
}

var layoutSetCmd = &cobra.Command{
	Use:   "set <table>",
	Short: "Set a column's width/visibility or the table's page size",
	Example: `  dbconsole layout set slow_queries --column sample_sql --width 400
  dbconsole layout set slow_queries --column db_name --hidden
  dbconsole layout set slow_queries --pagesize 50`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := args[0]
		if _, err := newGridService().Table(table); err != nil {
			return err
		}
		changedColumn := cmd.Flags().Changed("width") || cmd.Flags().Changed("hidden")
		changedPageSize := cmd.Flags().Changed("pagesize")
		if !changedColumn && !changedPageSize {
			return errors.New("nothing to set: use --width/--hidden with --column, or --pagesize")
		}

		if changedColumn {
			if layoutColumn == "" {
				return errors.New("--column is required with --width/--hidden")
			}
			if layoutWidth < 0 {
				return errors.New("--width must not be negative")
			}
			var cfg models.ColumnConfig
			layout, err := database.GetTableLayout(table)
			if err != nil {
				return err
			}
			if layout != nil {
				cfg = layout.Columns[layoutColumn]
			}
			if cmd.Flags().Changed("width") {
				cfg.Width = layoutWidth
			}
			if cmd.Flags().Changed("hidden") {
				cfg.Hidden = layoutHidden
			}
			if err := database.SetColumnLayout(table, layoutColumn, cfg); err != nil {
				return err
			}
		}
		if changedPageSize {
			if layoutPageSize < 0 {
				return errors.New("--pagesize must not be negative")
			}
			if err := database.SetTablePageSize(table, layoutPageSize); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Layout for %s saved.\n", table)
		return nil
	},
}

var layoutResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all table layouts to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.ResetTableLayouts(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All table layouts have been reset.")
		return nil
	},
}

func init() {
	layoutSetCmd.Flags().StringVarP(&layoutColumn, "column", "c", "", "column key (header name) to configure")
	layoutSetCmd.Flags().IntVarP(&layoutWidth, "width", "w", 0, "column width in pixels (0 for default)")
	layoutSetCmd.Flags().BoolVar(&layoutHidden, "hidden", false, "hide the column (--hidden=false shows it again)")
	layoutSetCmd.Flags().IntVar(&layoutPageSize, "pagesize", 0, "initial page size for the table (0 for default)")
	layoutCmd.AddCommand(layoutShowCmd, layoutSetCmd, layoutResetCmd)
	rootCmd.AddCommand(layoutCmd)
}
