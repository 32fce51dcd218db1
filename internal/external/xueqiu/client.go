package xueqiu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PaesslerAG/jsonpath"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/pkg/httputil"
	"github.com/wonny/roicalc/pkg/logger"
)

// ErrNoDividendData is returned when the snapshot carries neither dividend nor yield
var ErrNoDividendData = errors.New("xueqiu snapshot has no dividend data")

// Source is the provenance label of Xueqiu snapshots
const Source = "xueqiu"

// JSON paths into quote.json
const (
	pathDividend      = "$.data.quote.dividend"
	pathDividendYield = "$.data.quote.dividend_yield"
	pathErrorCode     = "$.error_code"
)

// Client reads trailing dividend figures from the Xueqiu quote snapshot.
// quote.json needs the session cookies set by the home page.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	homeURL    string

	mu      sync.Mutex
	session bool
}

// NewClient creates a new Xueqiu client. httpClient must keep cookies.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, homeURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		homeURL:    homeURL,
	}
}

// Name implements contracts.DividendProvider
func (c *Client) Name() string {
	return Source
}

// Dividend implements contracts.DividendProvider
func (c *Client) Dividend(ctx context.Context, symbol string) (*contracts.DividendFigure, error) {
	sym, err := contracts.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", sym)
	params.Set("extend", "detail")
	fullURL := fmt.Sprintf("%s/v5/stock/quote.json?%s", c.baseURL, params.Encode())

	body, err := c.httpClient.Fetch(ctx, fullURL, map[string]string{"Referer": c.homeURL})
	if err != nil {
		// 세션 만료 가능성: 다음 호출에서 다시 받음
		c.resetSession()
		return nil, fmt.Errorf("xueqiu quote %s: %w", sym, err)
	}

	fig, err := ParseSnapshot(body)
	if err != nil {
		return nil, fmt.Errorf("xueqiu quote %s: %w", sym, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":   sym,
		"dividend": fig.AmountPerShare,
		"yield":    fig.Yield,
	}).Debug("Fetched dividend snapshot")

	return fig, nil
}

func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session {
		return nil
	}
	if _, err := c.httpClient.Fetch(ctx, c.homeURL, nil); err != nil {
		return fmt.Errorf("xueqiu session: %w", err)
	}
	c.session = true
	return nil
}

func (c *Client) resetSession() {
	c.mu.Lock()
	c.session = false
	c.mu.Unlock()
}

// ParseSnapshot reads data.quote.dividend and data.quote.dividend_yield.
// null fields count as absent.
func ParseSnapshot(body []byte) (*contracts.DividendFigure, error) {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if code, ok := lookupNumber(doc, pathErrorCode); ok && code != 0 {
		return nil, fmt.Errorf("xueqiu error_code %v", code)
	}

	dividend, hasDividend := lookupNumber(doc, pathDividend)
	yield, hasYield := lookupNumber(doc, pathDividendYield)
	if !hasDividend && !hasYield {
		return nil, ErrNoDividendData
	}

	return &contracts.DividendFigure{
		AmountPerShare: dividend,
		Yield:          yield,
		Source:         Source + " (TTM)",
	}, nil
}

// lookupNumber returns the number at path; missing, null and non-numeric are absent
func lookupNumber(doc interface{}, path string) (float64, bool) {
	v, err := jsonpath.Get(path, doc)
	if err != nil || v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
