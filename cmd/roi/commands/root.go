package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
	workers    int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roi",
	Short: "A-share ROI statistics (dividend yield, ROE/PB)",
	Long: `ROI CLI

For each configured A-share stock the quote, financial indicators and
dividend data are fetched and two return estimates are computed:
  Formula 1: dividend yield
  Formula 2: ROE / PB

Usage:
  go run ./cmd/roi [command]

Examples:
  go run ./cmd/roi run
  go run ./cmd/roi run --symbols SH600519,SZ000858
  go run ./cmd/roi serve --port 8089
  go run ./cmd/roi schedule --now
  go run ./cmd/roi stocks --config stocks.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "stock settings file (default STOCKS_FILE, built-in list when missing)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production|test), overrides ENV")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (LOG_LEVEL=debug)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "parallel stock workers, overrides WORKERS")
}
