package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/roicalc/internal/calculator"
	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/internal/financial"
	"github.com/wonny/roicalc/internal/stockconfig"
	"github.com/wonny/roicalc/pkg/config"
	"github.com/wonny/roicalc/pkg/logger"
)

// Options tune one Runner
type Options struct {
	Mode     string // one of the contracts.Mode* values
	PBSource string // config.PBSourceQuote or config.PBSourceBPS
	Workers  int    // <= 1 runs sequentially
	Notes    []string
	Now      func() time.Time
}

// Runner fetches, selects and computes one report
// ⭐ SSOT: 종목별 조회 → 선택 → 계산 흐름은 여기서만
type Runner struct {
	quotes     contracts.QuoteProvider
	indicators contracts.IndicatorProvider
	dividends  contracts.DividendProvider
	opts       Options
	logger     *logger.Logger
}

// New creates a Runner
func New(quotes contracts.QuoteProvider, indicators contracts.IndicatorProvider, dividends contracts.DividendProvider, opts Options, log *logger.Logger) *Runner {
	if opts.Mode == "" {
		opts.Mode = contracts.ModeSnapshot
	}
	if opts.PBSource == "" {
		opts.PBSource = config.PBSourceQuote
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		quotes:     quotes,
		indicators: indicators,
		dividends:  dividends,
		opts:       opts,
		logger:     log,
	}
}

// Mode returns the dividend mode of this runner
func (r *Runner) Mode() string {
	return r.opts.Mode
}

// outcome is everything computed for one stock
type outcome struct {
	row    contracts.ROIResult
	annual contracts.ROIResult
}

// Run computes one report over settings.Stocks. Rows keep the input order.
// Provider failures never fail the run; they flag the row instead.
func (r *Runner) Run(ctx context.Context, settings *stockconfig.Settings) (*contracts.Report, error) {
	if settings == nil || len(settings.Stocks) == 0 {
		return nil, stockconfig.ErrNoStocks
	}

	start := r.opts.Now()
	hash, _ := stockconfig.Hash(settings)
	r.logger.WithFields(map[string]interface{}{
		"stocks":        len(settings.Stocks),
		"mode":          r.opts.Mode,
		"workers":       r.opts.Workers,
		"settings_hash": hash,
	}).Info("ROI run started")

	selector := financial.NewSelector(settings)
	outcomes := make([]outcome, len(settings.Stocks))

	if r.opts.Workers <= 1 {
		for i, stock := range settings.Stocks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = r.evaluate(ctx, stock, selector, settings)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.opts.Workers)
		for i, stock := range settings.Stocks {
			i, stock := i, stock
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = r.evaluate(gctx, stock, selector, settings)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	report := &contracts.Report{
		GeneratedAt: start,
		Mode:        r.opts.Mode,
		Rows:        make([]contracts.ROIResult, len(outcomes)),
		Notes:       append([]string(nil), r.opts.Notes...),
	}
	degraded := 0
	for i, o := range outcomes {
		report.Rows[i] = o.row
		if o.row.Degraded() {
			degraded++
		}
	}
	if r.opts.Mode == contracts.ModeAnnual {
		report.AnnualRows = make([]contracts.ROIResult, len(outcomes))
		for i, o := range outcomes {
			report.AnnualRows[i] = o.annual
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"rows":     len(report.Rows),
		"degraded": degraded,
	}).Info("ROI run completed")

	return report, nil
}

// evaluate never fails: each provider error is logged and recorded on the row
func (r *Runner) evaluate(ctx context.Context, stock contracts.StockConfig, selector *financial.Selector, settings *stockconfig.Settings) outcome {
	symbol := stock.Symbol
	var unavailable []string

	quote, err := r.quotes.Quote(ctx, symbol)
	if err != nil {
		r.providerFailed(symbol, contracts.ProviderQuote, err)
		unavailable = append(unavailable, contracts.ProviderQuote)
		quote = &contracts.Quote{Source: contracts.SourceUnavailable}
	}

	rows, err := r.indicators.Indicators(ctx, symbol)
	if err != nil {
		r.providerFailed(symbol, contracts.ProviderFinancial, err)
		unavailable = append(unavailable, contracts.ProviderFinancial)
		rows = nil
	}
	ind, err := selector.Select(symbol, rows)
	if err != nil {
		if !slices.Contains(unavailable, contracts.ProviderFinancial) {
			r.providerFailed(symbol, contracts.ProviderFinancial, err)
			unavailable = append(unavailable, contracts.ProviderFinancial)
		}
		ind = &contracts.FinancialIndicator{Source: contracts.SourceUnavailable}
	}

	div, err := r.dividends.Dividend(ctx, symbol)
	if err != nil {
		r.providerFailed(symbol, contracts.ProviderDividend, err)
		unavailable = append(unavailable, contracts.ProviderDividend)
		div = &contracts.DividendFigure{Source: contracts.SourceUnavailable}
	}

	pb, pbSource := financial.ResolvePB(r.opts.PBSource, quote.PB, quote.Price, ind.BPS)
	if pbSource == "" {
		pbSource = contracts.SourceUnavailable
	}

	name := stock.Name
	if name == "" {
		name = quote.Name
	}

	base := calculator.Input{
		Name:           name,
		Symbol:         symbol,
		CurrentPrice:   quote.Price,
		ROE:            ind.ROE,
		PB:             pb,
		DataSource:     quote.Source,
		PBSource:       pbSource,
		ROESource:      ind.Source,
		GuaranteedNote: settings.Note(symbol),
		Unavailable:    unavailable,
	}

	in := base
	in.DividendYield = div.Yield
	in.Dividends = []calculator.DividendEntry{{CashDiv: div.AmountPerShare, BonusRatio: div.BonusRatio}}
	in.DividendSource = div.Source
	in.InterimDividend = div.InterimDividend
	in.AnnualDividend = div.AnnualDividend

	o := outcome{row: calculator.Calculate(in)}

	if r.opts.Mode == contracts.ModeAnnual {
		annual := base
		annual.DividendYield = div.AnnualYield
		annual.Dividends = []calculator.DividendEntry{{CashDiv: div.AnnualDividend}}
		annual.DividendSource = div.Source
		annual.AnnualDividend = div.AnnualDividend
		o.annual = calculator.Calculate(annual)
	}

	r.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"f1":     fmt.Sprintf("%.2f", o.row.ROIFormula1),
		"f2":     fmt.Sprintf("%.2f", o.row.ROIFormula2),
	}).Debug("Row computed")

	return o
}

func (r *Runner) providerFailed(symbol, provider string, err error) {
	r.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"provider": provider,
	}).WithError(err).Warn("Provider failed, row degraded")
}
