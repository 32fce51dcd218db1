package calculator

import (
	"github.com/wonny/roicalc/internal/contracts"
)

// BonusShareValue is the per-share value assigned to one bonus share
const BonusShareValue = 0.1

// Yield rule names recorded in ROIResult.YieldRule
const (
	RuleReportedYield         = "reported_yield"
	RuleCashDividendOverPrice = "cash_dividend_over_price"
	RuleNotComputable         = "not_computable"
)

// DividendEntry is one distribution: cash per share plus bonus shares per share
type DividendEntry struct {
	CashDiv    float64
	BonusRatio float64
}

// Input is everything the calculator needs for one stock
type Input struct {
	Name         string
	Symbol       string
	CurrentPrice float64
	ROE          float64 // percent number
	PB           float64

	// DividendYield is a provider-reported yield in percent; <= 0 means absent
	DividendYield float64
	// Dividends is newest first; only the first entry is used
	Dividends []DividendEntry

	DataSource     string
	DividendSource string
	PBSource       string
	ROESource      string

	InterimDividend float64
	AnnualDividend  float64
	GuaranteedNote  string
	Unavailable     []string
}

// yieldRule resolves Formula 1; ok=false passes to the next rule
type yieldRule struct {
	name  string
	apply func(in Input, dividendPerShare float64) (value float64, ok bool)
}

// ⭐ SSOT: 공식1 우선순위 (먼저 맞는 규칙 사용)
var yieldRules = []yieldRule{
	{
		name: RuleReportedYield,
		apply: func(in Input, _ float64) (float64, bool) {
			if in.DividendYield > 0 {
				return in.DividendYield, true
			}
			return 0, false
		},
	},
	{
		name: RuleCashDividendOverPrice,
		apply: func(in Input, dps float64) (float64, bool) {
			if in.CurrentPrice <= 0 {
				return 0, false
			}
			return dps / in.CurrentPrice * 100, true
		},
	},
}

// Calculate computes both return estimates for one stock.
// It is pure: same input, same result.
func Calculate(in Input) contracts.ROIResult {
	dps := DividendPerShare(in.Dividends)

	f1, rule, computable := Formula1(in, dps)

	var unavailable []string
	if len(in.Unavailable) > 0 {
		unavailable = append([]string(nil), in.Unavailable...)
	}

	return contracts.ROIResult{
		StockName:          in.Name,
		Symbol:             in.Symbol,
		CurrentPrice:       in.CurrentPrice,
		DividendPerShare:   dps,
		ROE:                in.ROE,
		PB:                 in.PB,
		ROIFormula1:        f1,
		ROIFormula2:        Formula2(in.ROE, in.PB),
		Formula1Computable: computable,
		YieldRule:          rule,
		DataSource:         in.DataSource,
		DividendSource:     in.DividendSource,
		PBSource:           in.PBSource,
		ROESource:          in.ROESource,
		InterimDividend:    in.InterimDividend,
		AnnualDividend:     in.AnnualDividend,
		GuaranteedNote:     in.GuaranteedNote,
		Unavailable:        unavailable,
	}
}

// DividendPerShare values the first entry as cash plus bonus shares at 0.1 each
func DividendPerShare(dividends []DividendEntry) float64 {
	if len(dividends) == 0 {
		return 0
	}
	latest := dividends[0]
	return latest.CashDiv + latest.BonusRatio*BonusShareValue
}

// Formula1 returns the dividend yield in percent and the rule that produced it.
// When no rule applies the value is 0 and computable is false.
func Formula1(in Input, dividendPerShare float64) (value float64, rule string, computable bool) {
	for _, r := range yieldRules {
		if v, ok := r.apply(in, dividendPerShare); ok {
			return v, r.name, true
		}
	}
	return 0, RuleNotComputable, false
}

// Formula2 is ROE / PB with ROE as a raw percent number; 0 when PB <= 0.
// 예: ROE=15.45, PB=4.41 → 3.50
func Formula2(roe, pb float64) float64 {
	if pb <= 0 {
		return 0
	}
	return roe / pb
}
