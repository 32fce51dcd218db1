package dividend

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/roicalc/internal/contracts"
)

// TrailingWindow is the look-back of the trailing dividend sum
const TrailingWindow = 365 * 24 * time.Hour

// HistorySource returns the distribution history of one stock
type HistorySource interface {
	History(ctx context.Context, symbol string) ([]contracts.BonusRecord, error)
}

// TrailingProvider sums distributions whose ex-date falls in the trailing window
type TrailingProvider struct {
	name   string
	source HistorySource
	now    func() time.Time
}

// NewTrailingProvider creates a provider named name over source
func NewTrailingProvider(name string, source HistorySource, now func() time.Time) *TrailingProvider {
	if now == nil {
		now = time.Now
	}
	return &TrailingProvider{name: name, source: source, now: now}
}

// Name implements contracts.DividendProvider
func (p *TrailingProvider) Name() string {
	return p.name
}

// Dividend implements contracts.DividendProvider
func (p *TrailingProvider) Dividend(ctx context.Context, symbol string) (*contracts.DividendFigure, error) {
	records, err := p.source.History(ctx, symbol)
	if err != nil {
		return nil, err
	}

	cash, bonus := TrailingSum(records, p.now())
	return &contracts.DividendFigure{
		AmountPerShare: cash,
		BonusRatio:     bonus,
		Source:         fmt.Sprintf("%s (trailing 365d)", p.name),
	}, nil
}

// TrailingSum adds cash and bonus ratios of records with an ex-date in
// (now-365d, now]. Records without a parsable ex-date are skipped.
func TrailingSum(records []contracts.BonusRecord, now time.Time) (cash, bonus float64) {
	from := now.Add(-TrailingWindow)
	for _, r := range records {
		ex, err := time.ParseInLocation("2006-01-02", r.ExDate, now.Location())
		if err != nil {
			continue
		}
		if ex.After(from) && !ex.After(now) {
			cash += r.CashPerShare
			bonus += r.BonusRatio
		}
	}
	return round4(cash), round4(bonus)
}
