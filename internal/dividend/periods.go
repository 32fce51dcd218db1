package dividend

import (
	"fmt"
	"time"

	"github.com/wonny/roicalc/pkg/config"
)

// Periods pins the report years used by the annual-report mode
type Periods struct {
	PriorYear          int // annual report and its interim to net out
	CurrentInterimYear int // interim added on top
}

// DerivePeriods picks the newest periods whose reports are normally out by now:
// annual reports land by end of April, interim reports by end of August.
func DerivePeriods(now time.Time) Periods {
	y := now.Year()
	switch {
	case now.Month() >= time.September:
		return Periods{PriorYear: y - 1, CurrentInterimYear: y}
	case now.Month() >= time.May:
		return Periods{PriorYear: y - 1, CurrentInterimYear: y - 1}
	default:
		return Periods{PriorYear: y - 2, CurrentInterimYear: y - 1}
	}
}

// ResolvePeriods returns the configured periods, or derives them from now
func ResolvePeriods(cfg config.DividendConfig, now time.Time) Periods {
	if cfg.PriorYear > 0 && cfg.CurrentInterimYear > 0 {
		return Periods{PriorYear: cfg.PriorYear, CurrentInterimYear: cfg.CurrentInterimYear}
	}
	return DerivePeriods(now)
}

// AnnualReportDate is the period end of the prior annual report
func (p Periods) AnnualReportDate() string {
	return fmt.Sprintf("%d-12-31", p.PriorYear)
}

// PriorInterimReportDate is the period end of the interim contained in the annual figure
func (p Periods) PriorInterimReportDate() string {
	return fmt.Sprintf("%d-06-30", p.PriorYear)
}

// CurrentInterimReportDate is the period end of the interim added on top
func (p Periods) CurrentInterimReportDate() string {
	return fmt.Sprintf("%d-06-30", p.CurrentInterimYear)
}

// String describes the netting, e.g. "2024 annual - 2024 interim + 2025 interim"
func (p Periods) String() string {
	return fmt.Sprintf("%d annual - %d interim + %d interim", p.PriorYear, p.PriorYear, p.CurrentInterimYear)
}
