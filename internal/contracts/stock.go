package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSymbol is returned for symbols without an SH/SZ exchange prefix
var ErrInvalidSymbol = errors.New("invalid symbol")

// Exchange prefixes
const (
	ExchangeShanghai = "SH"
	ExchangeShenzhen = "SZ"
)

// StockConfig is one configured stock
// ⭐ SSOT: 종목 식별은 Symbol (예: SH600519)
type StockConfig struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol" yaml:"symbol"`
}

// ParseSymbol splits "SH600519" into ("SH", "600519").
// Lower-case prefixes are accepted.
func ParseSymbol(symbol string) (exchange, code string, err error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if len(s) < 3 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}

	exchange, code = s[:2], s[2:]
	if exchange != ExchangeShanghai && exchange != ExchangeShenzhen {
		return "", "", fmt.Errorf("%w: %q must start with SH or SZ", ErrInvalidSymbol, symbol)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", "", fmt.Errorf("%w: %q has a non-numeric code", ErrInvalidSymbol, symbol)
		}
	}
	return exchange, code, nil
}

// NormalizeSymbol returns the canonical upper-case form
func NormalizeSymbol(symbol string) (string, error) {
	exchange, code, err := ParseSymbol(symbol)
	if err != nil {
		return "", err
	}
	return exchange + code, nil
}

// SecuCode returns the "600519.SH" form used by datacenter APIs
func SecuCode(symbol string) (string, error) {
	exchange, code, err := ParseSymbol(symbol)
	if err != nil {
		return "", err
	}
	return code + "." + exchange, nil
}
