package stockconfig

import (
	"fmt"
)

// ValidationError 검증 실패 (실행 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
// Symbols are expected in normalized form.
func Validate(s *Settings) error {
	if len(s.Stocks) == 0 {
		return ErrNoStocks
	}

	seen := make(map[string]bool, len(s.Stocks))
	for i, st := range s.Stocks {
		if seen[st.Symbol] {
			return ValidationError{fmt.Sprintf("stocks[%d].symbol", i), fmt.Sprintf("duplicate %s", st.Symbol)}
		}
		seen[st.Symbol] = true
	}

	for sym, roe := range s.ROEOverrides {
		if roe <= 0 {
			return ValidationError{"roe_overrides." + sym, "must be > 0"}
		}
	}

	floors := make(map[string]bool, len(s.ROEFloors))
	for i, f := range s.ROEFloors {
		if f.MinROE <= 0 {
			return ValidationError{fmt.Sprintf("roe_floors[%d].min_roe", i), "must be > 0"}
		}
		if floors[f.Symbol] {
			return ValidationError{fmt.Sprintf("roe_floors[%d].symbol", i), fmt.Sprintf("duplicate %s", f.Symbol)}
		}
		floors[f.Symbol] = true
	}

	return nil
}
