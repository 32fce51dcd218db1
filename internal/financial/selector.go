package financial

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/internal/stockconfig"
)

// ErrNoIndicator is returned when there are no rows and no override
var ErrNoIndicator = errors.New("no financial indicator")

// Strategy names, in priority order
const (
	StrategyOverride = "override"
	StrategyAnnual   = "annual"
	StrategyLatest   = "latest"
)

// strategy picks one indicator from rows sorted newest first
type strategy struct {
	name string
	pick func(symbol string, rows []contracts.IndicatorRow) (*contracts.FinancialIndicator, bool)
}

// Selector chooses the ROE/BPS figure of one stock
// ⭐ SSOT: ROE 선택 우선순위 (오버라이드 > 연간 > 최신), 하한은 오버라이드에 미적용
type Selector struct {
	settings   *stockconfig.Settings
	strategies []strategy
}

// NewSelector creates a selector bound to the run's settings
func NewSelector(settings *stockconfig.Settings) *Selector {
	s := &Selector{settings: settings}
	s.strategies = []strategy{
		{name: StrategyOverride, pick: s.pickOverride},
		{name: StrategyAnnual, pick: pickAnnual},
		{name: StrategyLatest, pick: pickLatest},
	}
	return s
}

// Select applies the strategies in order, then the ROE floor if configured.
// An override is final and never floored. rows may be in any order.
func (s *Selector) Select(symbol string, rows []contracts.IndicatorRow) (*contracts.FinancialIndicator, error) {
	sorted := newestFirst(rows)

	for _, st := range s.strategies {
		ind, ok := st.pick(symbol, sorted)
		if !ok {
			continue
		}
		if st.name != StrategyOverride {
			s.applyFloor(symbol, ind)
		}
		return ind, nil
	}

	return nil, fmt.Errorf("%s: %w", symbol, ErrNoIndicator)
}

func (s *Selector) pickOverride(symbol string, rows []contracts.IndicatorRow) (*contracts.FinancialIndicator, bool) {
	if s.settings == nil {
		return nil, false
	}
	roe, ok := s.settings.ROEOverride(symbol)
	if !ok {
		return nil, false
	}

	ind := &contracts.FinancialIndicator{ROE: roe, Source: StrategyOverride}
	// BPS는 여전히 최신 보고서에서
	if len(rows) > 0 {
		ind.BPS = rows[0].BPS
		ind.ReportDate = rows[0].ReportDate
		ind.ReportType = rows[0].ReportType
	}
	return ind, true
}

func pickAnnual(_ string, rows []contracts.IndicatorRow) (*contracts.FinancialIndicator, bool) {
	for _, r := range rows {
		if IsAnnualReport(r.ReportType) && r.ROE > 0 {
			return fromRow(r, StrategyAnnual), true
		}
	}
	return nil, false
}

func pickLatest(_ string, rows []contracts.IndicatorRow) (*contracts.FinancialIndicator, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	return fromRow(rows[0], StrategyLatest), true
}

func (s *Selector) applyFloor(symbol string, ind *contracts.FinancialIndicator) {
	if s.settings == nil {
		return
	}
	floor, ok := s.settings.ROEFloor(symbol)
	if !ok || ind.ROE >= floor {
		return
	}
	ind.ROE = floor
	ind.Source = fmt.Sprintf("%s, floor %.2f", ind.Source, floor)
}

// IsAnnualReport reports whether a report-type label marks an annual filing
func IsAnnualReport(reportType string) bool {
	return strings.Contains(reportType, "年报") ||
		strings.Contains(strings.ToLower(reportType), "annual")
}

func fromRow(r contracts.IndicatorRow, strategyName string) *contracts.FinancialIndicator {
	return &contracts.FinancialIndicator{
		ROE:        r.ROE,
		BPS:        r.BPS,
		ReportDate: r.ReportDate,
		ReportType: r.ReportType,
		Source:     fmt.Sprintf("%s %s", strategyName, r.ReportDate),
	}
}

// newestFirst returns a copy sorted by report date, descending
func newestFirst(rows []contracts.IndicatorRow) []contracts.IndicatorRow {
	sorted := append([]contracts.IndicatorRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReportDate > sorted[j].ReportDate
	})
	return sorted
}
