package tencent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/pkg/httputil"
	"github.com/wonny/roicalc/pkg/logger"
)

// ErrMalformedQuote is returned when the quote text has too few fields
var ErrMalformedQuote = errors.New("malformed tencent quote")

// Source is the provenance label of Tencent quotes
const Source = "tencent"

// quoteFields maps quote fields to their offsets in the ~-delimited text
var quoteFields = struct {
	Name  int
	Price int
	PE    int
	PB    int
}{
	Name:  1,
	Price: 3,
	PE:    39,
	PB:    46,
}

// Client handles communication with the Tencent quote service
// ⭐ SSOT: 텐센트 실시간 시세 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Tencent quote client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Quote implements contracts.QuoteProvider
func (c *Client) Quote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	exchange, code, err := contracts.ParseSymbol(symbol)
	if err != nil {
		return nil, err
	}

	fullURL := fmt.Sprintf("%s/q=%s%s", c.baseURL, strings.ToLower(exchange), code)
	body, err := c.httpClient.Fetch(ctx, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("tencent quote %s: %w", symbol, err)
	}

	text, err := simplifiedchinese.GBK.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode GBK: %w", err)
	}

	q, err := ParseQuote(string(text))
	if err != nil {
		return nil, fmt.Errorf("tencent quote %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"price":  q.Price,
		"pb":     q.PB,
	}).Debug("Fetched quote")

	return q, nil
}

// ParseQuote parses v_sh600519="1~name~code~price~...";
func ParseQuote(text string) (*contracts.Quote, error) {
	parts := strings.Split(strings.TrimSpace(text), "~")
	if len(parts) <= quoteFields.PB {
		return nil, fmt.Errorf("%w: %d fields", ErrMalformedQuote, len(parts))
	}

	price, err := parseNumber(parts[quoteFields.Price])
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	pe, err := parseNumber(parts[quoteFields.PE])
	if err != nil {
		return nil, fmt.Errorf("pe: %w", err)
	}
	pb, err := parseNumber(parts[quoteFields.PB])
	if err != nil {
		return nil, fmt.Errorf("pb: %w", err)
	}

	return &contracts.Quote{
		Name:   strings.TrimSpace(parts[quoteFields.Name]),
		Price:  price,
		PE:     pe,
		PB:     pb,
		Source: Source,
	}, nil
}

// parseNumber treats an empty field as 0
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
