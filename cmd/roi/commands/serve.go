package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/roicalc/internal/api"
	"github.com/wonny/roicalc/internal/api/handlers"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "웹 서버 시작",
	Long: `Starts the web variant. Every request computes a fresh report;
nothing is stored.

Endpoints:
  GET  /health                 - Health check
  GET  /                       - HTML summary
  GET  /api/stocks             - Configured stock list
  GET  /api/report             - Report of the configured list
  POST /api/query              - Report of {"symbols": [...]}
  GET  /api/charts/{kind}.png  - yield | roepb | combined

Example:
  go run ./cmd/roi serve
  go run ./cmd/roi serve --port 8080`,
	RunE: runServer,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "server port, overrides PORT")
}

func runServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if servePort != "" {
		a.cfg.Port = servePort
	}

	roiHandler := handlers.NewROIHandler(a.runner, a.settings, a.writer.Font(), a.log)
	router := api.NewRouter(roiHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
