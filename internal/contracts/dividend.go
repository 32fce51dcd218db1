package contracts

// DividendFigure is the trailing dividend of one stock
type DividendFigure struct {
	AmountPerShare float64 `json:"amount_per_share"` // cash per share, >= 0
	BonusRatio     float64 `json:"bonus_ratio"`      // bonus shares per share
	Yield          float64 `json:"yield"`            // percent, 0 means absent
	Source         string  `json:"source"`

	// Annual-report mode only
	AnnualDividend       float64 `json:"annual_dividend,omitempty"`
	PriorInterimDividend float64 `json:"prior_interim_dividend,omitempty"`
	InterimDividend      float64 `json:"interim_dividend,omitempty"`
	AnnualYield          float64 `json:"annual_yield,omitempty"`
}

// BonusRecord is one distribution plan as published by a provider
type BonusRecord struct {
	ReportDate   string  `json:"report_date"` // YYYY-MM-DD period end
	ExDate       string  `json:"ex_date"`     // YYYY-MM-DD, empty when not yet set
	CashPerShare float64 `json:"cash_per_share"`
	BonusRatio   float64 `json:"bonus_ratio"` // bonus shares per share
	Yield        float64 `json:"yield"`       // percent, 0 means absent
}
