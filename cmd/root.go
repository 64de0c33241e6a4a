package cmd

import (
	"context"
	"fmt"
	"os"

	"dbconsole/config"
	"dbconsole/core"
	"dbconsole/database"
	"dbconsole/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile           string
	dbPath            string // Bound to --dbpath flag
	appLogPathFlag    string
	accessLogPathFlag string
	logLevelFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "dbconsole",
	Short: "Grid console for the database monitoring backend",
	Long: `dbconsole reads tabular pages (node status, slow queries, index advice,
security risks, settings) from the monitoring backend and shows them as grids:
printed once, browsed interactively, or served to the dashboard as JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile, appLogPathFlag, accessLogPathFlag, logLevelFlag); err != nil {
			return fmt.Errorf("failed to initialize config in PersistentPreRunE: %w", err)
		}

		finalDBPath := config.AppConfig.Database.Path
		if dbPath != "" {
			expandedPath, err := config.ExpandTilde(dbPath)
			if err != nil {
				logger.Error("Error expanding tilde in --dbpath flag '%s': %v. Using original.", dbPath, err)
				expandedPath = dbPath
			}
			finalDBPath = expandedPath
			logger.Info("PersistentPreRunE: Using database path from --dbpath flag: '%s'", finalDBPath)
		}
		if finalDBPath == "" {
			logger.Error("PersistentPreRunE: Database path is empty after checking flag and config! Falling back to 'dbconsole.db' in CWD.")
			finalDBPath = "dbconsole.db"
		}

		if err := database.InitDB(finalDBPath); err != nil {
			return fmt.Errorf("failed to initialize database at %s: %w", finalDBPath, err)
		}
		logger.Debug("Database initialized at: %s", finalDBPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := database.Close(); err != nil {
			logger.Error("Error closing database: %v", err)
		}
	},
}

// newGridService wires the configured backend client into a GridService.
func newGridService() *core.GridService {
	return core.NewGridService(config.AppConfig, core.NewBackendClient(config.AppConfig))
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/dbconsole/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "path to the SQLite settings database (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&appLogPathFlag, "app-log", "", "path for the application log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&accessLogPathFlag, "access-log", "", "path for the server access log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (overrides config/default)")
}
