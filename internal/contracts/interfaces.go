package contracts

import "context"

// QuoteProvider returns the real-time quote of one stock
// ⭐ SSOT: 시세 조회 인터페이스
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}

// IndicatorProvider returns raw financial-indicator rows, newest first
// ⭐ SSOT: 재무지표 조회 인터페이스
type IndicatorProvider interface {
	Indicators(ctx context.Context, symbol string) ([]IndicatorRow, error)
}

// DividendProvider returns the trailing dividend of one stock
// ⭐ SSOT: 배당 조회 인터페이스
type DividendProvider interface {
	Dividend(ctx context.Context, symbol string) (*DividendFigure, error)
	Name() string
}
