package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/internal/stockconfig"
	"github.com/wonny/roicalc/pkg/config"
	"github.com/wonny/roicalc/pkg/logger"
)

type fakeQuotes struct {
	quotes map[string]*contracts.Quote
	fail   map[string]bool
	jitter bool
}

func (f *fakeQuotes) Quote(_ context.Context, symbol string) (*contracts.Quote, error) {
	if f.jitter {
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	}
	if f.fail[symbol] {
		return nil, errors.New("connection refused")
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return &contracts.Quote{Name: symbol, Price: 10, PB: 1, Source: "fake"}, nil
	}
	cp := *q
	return &cp, nil
}

type fakeIndicators struct {
	rows map[string][]contracts.IndicatorRow
	fail bool
}

func (f *fakeIndicators) Indicators(_ context.Context, symbol string) ([]contracts.IndicatorRow, error) {
	if f.fail {
		return nil, errors.New("status 502")
	}
	return f.rows[symbol], nil
}

type fakeDividends struct {
	mu      sync.Mutex
	figures map[string]*contracts.DividendFigure
	fail    map[string]bool
}

func (f *fakeDividends) Name() string { return "fake" }

func (f *fakeDividends) Dividend(_ context.Context, symbol string) (*contracts.DividendFigure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[symbol] {
		return nil, errors.New("blocked")
	}
	if fig, ok := f.figures[symbol]; ok {
		cp := *fig
		return &cp, nil
	}
	return &contracts.DividendFigure{Source: "fake"}, nil
}

var fixedNow = func() time.Time { return time.Date(2025, 10, 15, 15, 30, 0, 0, time.UTC) }

func moutaiSettings() *stockconfig.Settings {
	return &stockconfig.Settings{
		Stocks: []contracts.StockConfig{
			{Name: "贵州茅台", Symbol: "SH600519"},
			{Name: "五粮液", Symbol: "SZ000858"},
		},
		Notes:       map[string]string{"SH600519": "note"},
		DefaultNote: "default",
	}
}

func newFixtures() (*fakeQuotes, *fakeIndicators, *fakeDividends) {
	quotes := &fakeQuotes{quotes: map[string]*contracts.Quote{
		"SH600519": {Name: "贵州茅台", Price: 1500, PB: 7.5, Source: "tencent"},
		"SZ000858": {Name: "五粮液", Price: 120, PB: 0, Source: "tencent"},
	}}
	indicators := &fakeIndicators{rows: map[string][]contracts.IndicatorRow{
		"SH600519": {{ReportDate: "2024-12-31", ReportType: "年报", ROE: 30, BPS: 200}},
		"SZ000858": {{ReportDate: "2024-12-31", ReportType: "年报", ROE: 24, BPS: 60}},
	}}
	dividends := &fakeDividends{figures: map[string]*contracts.DividendFigure{
		"SH600519": {AmountPerShare: 45, Yield: 3.0, Source: "xueqiu"},
		"SZ000858": {AmountPerShare: 3.6, Source: "sina"},
	}}
	return quotes, indicators, dividends
}

func TestRunComputesRows(t *testing.T) {
	q, ind, div := newFixtures()
	r := New(q, ind, div, Options{Now: fixedNow}, logger.NewNop())

	report, err := r.Run(context.Background(), moutaiSettings())
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	moutai := report.Rows[0]
	assert.Equal(t, "SH600519", moutai.Symbol)
	assert.Equal(t, 3.0, moutai.ROIFormula1, "reported yield is used verbatim")
	assert.InDelta(t, 4.0, moutai.ROIFormula2, 1e-9)
	assert.Equal(t, "quote", moutai.PBSource)
	assert.Equal(t, "note", moutai.GuaranteedNote)
	assert.Empty(t, moutai.Unavailable)

	wuliangye := report.Rows[1]
	assert.InDelta(t, 3.0, wuliangye.ROIFormula1, 1e-9, "3.6 / 120")
	assert.InDelta(t, 12.0, wuliangye.ROIFormula2, 1e-9, "quote PB missing, falls back to 120/60")
	assert.Equal(t, "price/bps", wuliangye.PBSource)
	assert.Equal(t, "default", wuliangye.GuaranteedNote)

	assert.Equal(t, fixedNow(), report.GeneratedAt)
	assert.Empty(t, report.AnnualRows)
}

func TestRunKeepsInputOrderWithWorkers(t *testing.T) {
	settings := &stockconfig.Settings{}
	for i := 0; i < 40; i++ {
		settings.Stocks = append(settings.Stocks, contracts.StockConfig{
			Name:   "s",
			Symbol: "SH6" + string(rune('0'+i/10)) + string(rune('0'+i%10)) + "000",
		})
	}

	q, ind, div := newFixtures()
	q.jitter = true
	r := New(q, ind, div, Options{Workers: 8, Now: fixedNow}, logger.NewNop())

	report, err := r.Run(context.Background(), settings)
	require.NoError(t, err)
	require.Len(t, report.Rows, len(settings.Stocks))
	for i, row := range report.Rows {
		assert.Equal(t, settings.Stocks[i].Symbol, row.Symbol)
	}
}

func TestRunProviderFailureYieldsFlaggedRow(t *testing.T) {
	q, ind, div := newFixtures()
	q.fail = map[string]bool{"SH600519": true}
	div.fail = map[string]bool{"SZ000858": true}

	r := New(q, ind, div, Options{Now: fixedNow}, logger.NewNop())
	report, err := r.Run(context.Background(), moutaiSettings())
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	moutai := report.Rows[0]
	assert.Equal(t, []string{contracts.ProviderQuote}, moutai.Unavailable)
	assert.Equal(t, contracts.SourceUnavailable, moutai.DataSource)
	assert.Equal(t, "贵州茅台", moutai.StockName)
	assert.Equal(t, 3.0, moutai.ROIFormula1, "reported yield survives a missing price")
	assert.InDelta(t, 0, moutai.ROIFormula2, 1e-9, "no price and no quote PB")

	wuliangye := report.Rows[1]
	assert.Equal(t, []string{contracts.ProviderDividend}, wuliangye.Unavailable)
	assert.Equal(t, contracts.SourceUnavailable, wuliangye.DividendSource)
	assert.Equal(t, 0.0, wuliangye.ROIFormula1)
}

func TestRunFinancialFailure(t *testing.T) {
	q, ind, div := newFixtures()
	ind.fail = true

	settings := moutaiSettings()
	settings.ROEOverrides = map[string]float64{"SZ000858": 20}

	r := New(q, ind, div, Options{Now: fixedNow}, logger.NewNop())
	report, err := r.Run(context.Background(), settings)
	require.NoError(t, err)

	assert.Equal(t, []string{contracts.ProviderFinancial}, report.Rows[0].Unavailable)
	assert.Equal(t, contracts.SourceUnavailable, report.Rows[0].ROESource)

	// the override still supplies ROE when the provider is down
	assert.Equal(t, 20.0, report.Rows[1].ROE)
	assert.Equal(t, "override", report.Rows[1].ROESource)
	assert.Equal(t, []string{contracts.ProviderFinancial}, report.Rows[1].Unavailable)
}

func TestRunIsIdempotent(t *testing.T) {
	q, ind, div := newFixtures()
	r := New(q, ind, div, Options{Now: fixedNow, Workers: 3}, logger.NewNop())

	first, err := r.Run(context.Background(), moutaiSettings())
	require.NoError(t, err)
	second, err := r.Run(context.Background(), moutaiSettings())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunNoStocks(t *testing.T) {
	q, ind, div := newFixtures()
	r := New(q, ind, div, Options{}, logger.NewNop())

	_, err := r.Run(context.Background(), &stockconfig.Settings{})
	assert.True(t, errors.Is(err, stockconfig.ErrNoStocks))

	_, err = r.Run(context.Background(), nil)
	assert.True(t, errors.Is(err, stockconfig.ErrNoStocks))
}

func TestRunCancelled(t *testing.T) {
	q, ind, div := newFixtures()
	r := New(q, ind, div, Options{}, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, moutaiSettings())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAnnualMode(t *testing.T) {
	q, ind, _ := newFixtures()
	div := &fakeDividends{figures: map[string]*contracts.DividendFigure{
		"SH600519": {
			AmountPerShare:       60,
			Source:               "eastmoney-annual",
			AnnualDividend:       50,
			PriorInterimDividend: 20,
			InterimDividend:      30,
			AnnualYield:          3.3,
		},
	}}

	r := New(q, ind, div, Options{Mode: contracts.ModeAnnual, PBSource: config.PBSourceBPS, Now: fixedNow, Notes: []string{"LTM"}}, logger.NewNop())
	report, err := r.Run(context.Background(), moutaiSettings())
	require.NoError(t, err)

	require.Len(t, report.AnnualRows, len(report.Rows))
	assert.Equal(t, contracts.ModeAnnual, report.Mode)
	assert.Equal(t, []string{"LTM"}, report.Notes)

	ltm := report.Rows[0]
	assert.InDelta(t, 4.0, ltm.ROIFormula1, 1e-9, "60 / 1500")
	assert.Equal(t, 30.0, ltm.InterimDividend)
	assert.Equal(t, 50.0, ltm.AnnualDividend)
	assert.Equal(t, "price/bps", ltm.PBSource)
	assert.InDelta(t, 4.0, ltm.ROIFormula2, 1e-9, "30 / (1500/200)")

	annual := report.AnnualRows[0]
	assert.Equal(t, 3.3, annual.ROIFormula1, "annual yield is used verbatim")
	assert.Equal(t, 50.0, annual.DividendPerShare)
	assert.Equal(t, ltm.ROIFormula2, annual.ROIFormula2)
}
