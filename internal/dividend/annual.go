package dividend

import (
	"context"
	"fmt"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/pkg/logger"
)

// BonusSource returns the distribution plan of symbol for one report period.
// A nil record with a nil error means nothing was distributed.
type BonusSource interface {
	Bonus(ctx context.Context, symbol, reportDate string) (*contracts.BonusRecord, error)
}

// AnnualProvider derives the trailing dividend from annual and interim reports
// ⭐ SSOT: LTM = 전년 연간 - 전년 중간 + 당해 중간
type AnnualProvider struct {
	source  BonusSource
	periods Periods
	logger  *logger.Logger
}

// NewAnnualProvider creates an annual-report dividend provider
func NewAnnualProvider(source BonusSource, periods Periods, log *logger.Logger) *AnnualProvider {
	return &AnnualProvider{
		source:  source,
		periods: periods,
		logger:  log,
	}
}

// Name implements contracts.DividendProvider
func (p *AnnualProvider) Name() string {
	return "eastmoney-annual"
}

// Periods returns the report periods this provider nets
func (p *AnnualProvider) Periods() Periods {
	return p.periods
}

// Dividend implements contracts.DividendProvider
func (p *AnnualProvider) Dividend(ctx context.Context, symbol string) (*contracts.DividendFigure, error) {
	annual, err := p.source.Bonus(ctx, symbol, p.periods.AnnualReportDate())
	if err != nil {
		return nil, fmt.Errorf("annual %d: %w", p.periods.PriorYear, err)
	}
	priorInterim, err := p.source.Bonus(ctx, symbol, p.periods.PriorInterimReportDate())
	if err != nil {
		return nil, fmt.Errorf("interim %d: %w", p.periods.PriorYear, err)
	}
	currentInterim := priorInterim
	if p.periods.CurrentInterimYear != p.periods.PriorYear {
		currentInterim, err = p.source.Bonus(ctx, symbol, p.periods.CurrentInterimReportDate())
		if err != nil {
			return nil, fmt.Errorf("interim %d: %w", p.periods.CurrentInterimYear, err)
		}
	}

	annualCash, annualYield := cashAndYield(annual)
	priorInterimCash, _ := cashAndYield(priorInterim)
	currentInterimCash, _ := cashAndYield(currentInterim)

	ltm := LTM(annualCash, priorInterimCash, currentInterimCash)

	p.logger.WithFields(map[string]interface{}{
		"symbol":          symbol,
		"annual":          annualCash,
		"prior_interim":   priorInterimCash,
		"current_interim": currentInterimCash,
		"ltm":             ltm,
	}).Debug("LTM dividend computed")

	return &contracts.DividendFigure{
		AmountPerShare:       ltm,
		Source:               fmt.Sprintf("%s (%s)", p.Name(), p.periods),
		AnnualDividend:       round4(annualCash),
		PriorInterimDividend: round4(priorInterimCash),
		InterimDividend:      round4(currentInterimCash),
		AnnualYield:          round4(annualYield),
	}, nil
}

func cashAndYield(r *contracts.BonusRecord) (float64, float64) {
	if r == nil {
		return 0, 0
	}
	return r.CashPerShare, r.Yield
}
