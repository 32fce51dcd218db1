package stockconfig

import (
	"github.com/wonny/roicalc/internal/contracts"
)

// Settings is the operator-maintained configuration of one run
// ⭐ SSOT: 종목 목록, ROE 오버라이드/하한, 비고는 여기서만 관리 (실행 중 불변)
type Settings struct {
	Stocks       []contracts.StockConfig `yaml:"stocks" json:"stocks"`
	ROEOverrides map[string]float64      `yaml:"roe_overrides" json:"roe_overrides,omitempty"`
	ROEFloors    []ROEFloor              `yaml:"roe_floors" json:"roe_floors,omitempty"`
	Notes        map[string]string       `yaml:"notes" json:"notes,omitempty"`
	DefaultNote  string                  `yaml:"default_note" json:"default_note,omitempty"`
}

// ROEFloor raises a selected ROE below MinROE up to MinROE
type ROEFloor struct {
	Symbol string  `yaml:"symbol" json:"symbol"`
	MinROE float64 `yaml:"min_roe" json:"min_roe"`
}

// ROEOverride returns the operator ROE for symbol, if any
func (s *Settings) ROEOverride(symbol string) (float64, bool) {
	v, ok := s.ROEOverrides[symbol]
	return v, ok
}

// ROEFloor returns the minimum ROE for symbol, if any
func (s *Settings) ROEFloor(symbol string) (float64, bool) {
	for _, f := range s.ROEFloors {
		if f.Symbol == symbol {
			return f.MinROE, true
		}
	}
	return 0, false
}

// Note returns the annotation for symbol, falling back to DefaultNote
func (s *Settings) Note(symbol string) string {
	if n, ok := s.Notes[symbol]; ok {
		return n
	}
	return s.DefaultNote
}

// WithStocks returns a copy of s that runs over a different stock list.
// Overrides, floors and notes are shared read-only.
func (s *Settings) WithStocks(stocks []contracts.StockConfig) *Settings {
	cp := *s
	cp.Stocks = append([]contracts.StockConfig(nil), stocks...)
	return &cp
}

// Lookup returns the configured stock with symbol
func (s *Settings) Lookup(symbol string) (contracts.StockConfig, bool) {
	for _, st := range s.Stocks {
		if st.Symbol == symbol {
			return st, true
		}
	}
	return contracts.StockConfig{}, false
}
