package contracts

import "time"

// SourceUnavailable is the provenance of a provider that failed
const SourceUnavailable = "data unavailable"

// Provider names recorded in ROIResult.Unavailable
const (
	ProviderQuote     = "quote"
	ProviderFinancial = "financial"
	ProviderDividend  = "dividend"
)

// Report modes
const (
	ModeSnapshot = "snapshot"
	ModeAnnual   = "annual"
	ModeTrailing = "trailing"
)

// ROIResult is the per-stock outcome of one run
// ⭐ SSOT: 계산기가 생성, 리포트가 소비 (생성 후 변경 없음)
type ROIResult struct {
	StockName        string  `json:"stock_name"`
	Symbol           string  `json:"symbol"`
	CurrentPrice     float64 `json:"current_price"`
	DividendPerShare float64 `json:"dividend_per_share"`
	ROE              float64 `json:"roe"`
	PB               float64 `json:"pb"`

	ROIFormula1        float64 `json:"roi_formula1"` // dividend yield, percent
	ROIFormula2        float64 `json:"roi_formula2"` // ROE / PB
	Formula1Computable bool    `json:"formula1_computable"`
	YieldRule          string  `json:"yield_rule"`

	DataSource     string `json:"data_source"`
	DividendSource string `json:"dividend_source"`
	PBSource       string `json:"pb_source"`
	ROESource      string `json:"roe_source"`

	InterimDividend float64 `json:"interim_dividend,omitempty"`
	AnnualDividend  float64 `json:"annual_dividend,omitempty"`
	GuaranteedNote  string  `json:"guaranteed_note,omitempty"`

	Unavailable []string `json:"unavailable,omitempty"`
}

// Degraded reports whether any provider failed for this row
func (r *ROIResult) Degraded() bool {
	return len(r.Unavailable) > 0
}

// Report is the output of one run
type Report struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Mode        string      `json:"mode"`
	Rows        []ROIResult `json:"rows"`
	AnnualRows  []ROIResult `json:"annual_rows,omitempty"`
	Notes       []string    `json:"notes,omitempty"`
}

// Timestamp is the file-name stamp of the report
func (r *Report) Timestamp() string {
	return r.GeneratedAt.Format("20060102_150405")
}
