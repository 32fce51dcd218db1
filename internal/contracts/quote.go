package contracts

// Quote is one real-time price snapshot
type Quote struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	PE     float64 `json:"pe"`
	PB     float64 `json:"pb"`
	Source string  `json:"source"`
}

// IndicatorRow is one raw financial-indicator row as reported by a provider
type IndicatorRow struct {
	ReportDate string  `json:"report_date"` // YYYY-MM-DD
	ReportType string  `json:"report_type"`
	ROE        float64 `json:"roe"` // percent number, 15.45 means 15.45%
	BPS        float64 `json:"bps"`
}

// FinancialIndicator is the ROE/BPS figure selected for one stock
type FinancialIndicator struct {
	ROE        float64 `json:"roe"`
	BPS        float64 `json:"bps"`
	ReportDate string  `json:"report_date"`
	ReportType string  `json:"report_type"`
	Source     string  `json:"source"`
}
