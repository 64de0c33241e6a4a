package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dbconsole/api"
	"dbconsole/config"
	"dbconsole/logger"

	"github.com/spf13/cobra"
)

var (
	serverPort      string
	serverStaticDir string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the grid API server for the dashboard",
	Run: func(cmd *cobra.Command, args []string) {
		portToUse := serverPort
		if portToUse == "" {
			portToUse = config.AppConfig.Server.Port
		}

		logger.Info("--- Server Command: Run ---")
		handler := api.NewServerHandler(newGridService(), serverStaticDir)
		srv := &http.Server{
			Addr:              ":" + portToUse,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if err := serveUntilSignal(cmd.Context(), srv); err != nil {
			logger.Fatal("Could not start server: %v", err)
		}
		logger.Info("Server Command: server stopped.")
	},
}

// serveUntilSignal runs srv until SIGINT/SIGTERM and then shuts it down.
func serveUntilSignal(parent context.Context, srv *http.Server) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s...", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down %s...", srv.Addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func init() {
	serverCmd.Flags().StringVarP(&serverPort, "port", "p", "", "port to listen on (default from config server.port)")
	serverCmd.Flags().StringVar(&serverStaticDir, "static", "./static", "directory with the dashboard's static files")
	rootCmd.AddCommand(serverCmd)
}
