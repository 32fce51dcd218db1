package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/internal/report"
	"github.com/wonny/roicalc/internal/stockconfig"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "ROI 리포트 1회 생성",
	Long: `Computes the report once and writes it to OUTPUT_DIR:
  roi_<ts>.xlsx     spreadsheet (ROI Analysis, Annual Distribution)
  ROI_1_<ts>.png    Formula 1 bars
  ROI_2_<ts>.png    Formula 2 bars
  ROI_<ts>.png      both formulas
  roi_<ts>.md       summary

A provider failure never aborts the run; the row is marked
"data unavailable" instead.

Example:
  go run ./cmd/roi run
  go run ./cmd/roi run --symbols SH600519,SZ000858 --no-summary`,
	RunE: runReport,
}

var (
	runSymbols   []string
	runOutputDir string
	runNoSummary bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&runSymbols, "symbols", nil, "ad-hoc symbols instead of the configured list")
	runCmd.Flags().StringVar(&runOutputDir, "output", "", "output directory, overrides OUTPUT_DIR")
	runCmd.Flags().BoolVar(&runNoSummary, "no-summary", false, "do not print the summary")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if runOutputDir != "" {
		a.cfg.OutputDir = runOutputDir
		a.writer = report.NewWriter(runOutputDir, a.writer.Font(), a.log)
	}

	settings, err := selectStocks(a.settings, runSymbols)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	PrintDoubleSeparator()
	fmt.Printf("  ROI Report (%s mode)\n", a.cfg.DividendMode)
	PrintSeparator()
	PrintKeyValue("Settings", a.settingsSource, 9)
	PrintKeyValue("Stocks", fmt.Sprintf("%d", len(settings.Stocks)), 9)
	PrintKeyValue("Output", a.cfg.OutputDir, 9)
	PrintSeparator()

	start := time.Now()
	rep, err := a.runner.Run(ctx, settings)
	if err != nil {
		PrintError(err.Error())
		return fmt.Errorf("compute report: %w", err)
	}

	art, err := a.writer.Write(rep)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	if !runNoSummary {
		out, err := report.RenderTerminal(report.Markdown(rep), a.cfg.SummaryStyle, 120)
		if err != nil {
			a.log.WithError(err).Warn("Summary rendering failed")
		} else {
			fmt.Println(out)
		}
	}

	degraded := 0
	for _, row := range rep.Rows {
		if row.Degraded() {
			degraded++
		}
	}
	if degraded > 0 {
		PrintWarning(fmt.Sprintf("%d of %d rows have unavailable data", degraded, len(rep.Rows)))
	}

	PrintList(append([]string{art.Workbook, art.Summary}, art.Charts...))
	PrintSuccess(fmt.Sprintf("Report written in %.2fs", time.Since(start).Seconds()))
	return nil
}

// selectStocks returns settings for symbols, or the configured list when
// symbols is empty. Configured names are kept for known symbols.
func selectStocks(settings *stockconfig.Settings, symbols []string) (*stockconfig.Settings, error) {
	if len(symbols) == 0 {
		return settings, nil
	}

	var stocks []contracts.StockConfig
	seen := make(map[string]bool)
	for _, raw := range symbols {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		symbol, err := contracts.NormalizeSymbol(raw)
		if err != nil {
			return nil, err
		}
		if seen[symbol] {
			continue
		}
		seen[symbol] = true

		stock, ok := settings.Lookup(symbol)
		if !ok {
			stock = contracts.StockConfig{Symbol: symbol}
		}
		stocks = append(stocks, stock)
	}
	if len(stocks) == 0 {
		return nil, stockconfig.ErrNoStocks
	}
	return settings.WithStocks(stocks), nil
}
