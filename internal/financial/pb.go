package financial

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/roicalc/pkg/config"
)

// PB provenance labels
const (
	PBFromQuote = "quote"
	PBFromBPS   = "price/bps"
)

// ResolvePB picks the price-to-book figure according to policy
// (config.PBSourceQuote or config.PBSourceBPS), falling back to the other
// source when the preferred one is unusable. Returns 0 and an empty source
// when neither works.
func ResolvePB(policy string, quotePB, price, bps float64) (float64, string) {
	fromQuote := func() (float64, bool) {
		return quotePB, quotePB > 0
	}
	fromBPS := func() (float64, bool) {
		if price <= 0 || bps <= 0 {
			return 0, false
		}
		pb, _ := decimal.NewFromFloat(price).
			Div(decimal.NewFromFloat(bps)).
			Round(2).
			Float64()
		return pb, true
	}

	if policy == config.PBSourceBPS {
		if pb, ok := fromBPS(); ok {
			return pb, PBFromBPS
		}
		if pb, ok := fromQuote(); ok {
			return pb, PBFromQuote
		}
		return 0, ""
	}

	if pb, ok := fromQuote(); ok {
		return pb, PBFromQuote
	}
	if pb, ok := fromBPS(); ok {
		return pb, PBFromBPS
	}
	return 0, ""
}
