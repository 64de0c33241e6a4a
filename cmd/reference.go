package cmd

import (
	"net/http"
	"time"

	"dbconsole/config"
	"dbconsole/logger"
	"dbconsole/reference"

	"github.com/spf13/cobra"
)

var (
	referencePort   string
	referenceDriver string
	referenceDSN    string
	referenceSeed   bool
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Serve the backend table contract from a SQL database",
	Long: `Starts a small backend that answers the table endpoints from SQL queries
configured under reference.queries. With the sqlite3 driver and --seed it creates
a development schema with sample rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig.Reference
		driver := firstNonEmpty(referenceDriver, cfg.Driver)
		dsn := firstNonEmpty(referenceDSN, cfg.DSN)
		port := firstNonEmpty(referencePort, cfg.Port)

		queries := make(map[string]reference.Query, len(cfg.Queries))
		for name, q := range cfg.Queries {
			queries[name] = reference.Query{SQL: q.SQL, CountSQL: q.CountSQL}
		}

		src, err := reference.Open(cmd.Context(), driver, dsn, queries)
		if err != nil {
			return err
		}
		defer src.Close()

		if referenceSeed && driver == "sqlite3" {
			if err := src.Seed(cmd.Context()); err != nil {
				return err
			}
			logger.Info("Reference database seeded at %s", dsn)
		}

		logger.Info("Reference backend (%s) serving tables: %v", driver, src.Tables())
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           reference.NewRouter(src),
			ReadHeaderTimeout: 10 * time.Second,
		}
		return serveUntilSignal(cmd.Context(), srv)
	},
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	referenceCmd.Flags().StringVarP(&referencePort, "port", "p", "", "port to listen on (default from config reference.port)")
	referenceCmd.Flags().StringVar(&referenceDriver, "driver", "", "database driver: mysql or sqlite3 (default from config)")
	referenceCmd.Flags().StringVar(&referenceDSN, "dsn", "", "data source name (default from config)")
	referenceCmd.Flags().BoolVar(&referenceSeed, "seed", true, "create and fill the sqlite development schema")
	rootCmd.AddCommand(referenceCmd)
}
