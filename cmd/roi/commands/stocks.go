package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/roicalc/internal/stockconfig"
	"github.com/wonny/roicalc/pkg/config"
)

// stocksCmd represents the stocks command
var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "설정된 종목 목록 조회",
	Long: `Prints the resolved stock list with its ROE overrides, ROE floors
and notes. Nothing is fetched.

Example:
  go run ./cmd/roi stocks
  go run ./cmd/roi stocks --config stocks.yaml`,
	RunE: listStocks,
}

func init() {
	rootCmd.AddCommand(stocksCmd)
}

func listStocks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	settings, source, err := stockconfig.Resolve(cfg.StocksFile)
	if err != nil {
		PrintError(err.Error())
		return err
	}
	hash, err := stockconfig.Hash(settings)
	if err != nil {
		return err
	}

	printSettings(cfg, settings, source, hash)
	return nil
}

func printSettings(cfg *config.Config, settings *stockconfig.Settings, source, hash string) {
	PrintDoubleSeparator()
	PrintKeyValue("Source", source, 8)
	PrintKeyValue("File", cfg.StocksFile, 8)
	PrintKeyValue("Hash", hash[:12], 8)
	PrintSeparator()

	widths := []int{10, 12, 9, 9, 30}
	PrintTableHeader([]string{"Symbol", "Name", "ROE ovr", "ROE min", "Note"}, widths)
	for _, s := range settings.Stocks {
		override, floor := "-", "-"
		if v, ok := settings.ROEOverride(s.Symbol); ok {
			override = fmt.Sprintf("%.2f", v)
		}
		if v, ok := settings.ROEFloor(s.Symbol); ok {
			floor = fmt.Sprintf("%.2f", v)
		}
		PrintTableRow([]string{s.Symbol, s.Name, override, floor, settings.Note(s.Symbol)}, widths)
	}
	PrintDoubleSeparator()
}
