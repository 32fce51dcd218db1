package dividend

import "github.com/shopspring/decimal"

// LTMPlaces is the rounding applied to LTM amounts
const LTMPlaces = 4

// LTM nets the interim already contained in the prior annual figure:
// AnnualDividend(prior) - InterimDividend(prior) + InterimDividend(current).
func LTM(annualPrior, interimPrior, interimCurrent float64) float64 {
	v, _ := decimal.NewFromFloat(annualPrior).
		Sub(decimal.NewFromFloat(interimPrior)).
		Add(decimal.NewFromFloat(interimCurrent)).
		Round(LTMPlaces).
		Float64()
	return v
}

// round4 rounds an amount to LTMPlaces
func round4(x float64) float64 {
	v, _ := decimal.NewFromFloat(x).Round(LTMPlaces).Float64()
	return v
}
