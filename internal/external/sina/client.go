package sina

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/pkg/httputil"
	"github.com/wonny/roicalc/pkg/logger"
)

// Source is the provenance label of Sina share-bonus data
const Source = "sina"

// Referer expected by the share-bonus pages
const Referer = "https://finance.sina.com.cn/"

// share-bonus table columns
const (
	colAnnounced = 0
	colBonus     = 1 // 送股 per 10 shares
	colCash      = 3 // 派息 (pre-tax) per 10 shares
	colExDate    = 5
	minColumns   = 6
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Client scrapes the Sina Finance share-bonus history page
// ⭐ SSOT: 시나 배당 이력 스크래핑은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Sina Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// History implements dividend.HistorySource
func (c *Client) History(ctx context.Context, symbol string) ([]contracts.BonusRecord, error) {
	_, code, err := contracts.ParseSymbol(symbol)
	if err != nil {
		return nil, err
	}

	fullURL := fmt.Sprintf("%s/corp/go.php/vISSUE_ShareBonus/stockid/%s.phtml", c.baseURL, code)
	body, err := c.httpClient.Fetch(ctx, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sina share bonus %s: %w", symbol, err)
	}

	html, err := simplifiedchinese.GBK.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode GBK: %w", err)
	}

	records, err := ParseShareBonus(html)
	if err != nil {
		return nil, fmt.Errorf("sina share bonus %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(records),
	}).Debug("Fetched share bonus history")

	return records, nil
}

// ParseShareBonus parses table#sharebonus_1. Rows without an announcement
// date (headers, "暂时没有数据") are skipped.
func ParseShareBonus(html []byte) ([]contracts.BonusRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	table := doc.Find("table#sharebonus_1")
	if table.Length() == 0 {
		return nil, fmt.Errorf("share bonus table not found")
	}

	parseNum := func(s string) float64 {
		s = strings.TrimSpace(s)
		if s == "" || s == "--" {
			return 0
		}
		n, _ := strconv.ParseFloat(s, 64)
		return n
	}

	var records []contracts.BonusRecord
	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minColumns {
			return
		}
		if !dateRe.MatchString(strings.TrimSpace(cells.Eq(colAnnounced).Text())) {
			return
		}

		exDate := strings.TrimSpace(cells.Eq(colExDate).Text())
		if !dateRe.MatchString(exDate) {
			exDate = ""
		}

		records = append(records, contracts.BonusRecord{
			ExDate:       exDate,
			CashPerShare: parseNum(cells.Eq(colCash).Text()) / 10,
			BonusRatio:   parseNum(cells.Eq(colBonus).Text()) / 10,
		})
	})

	return records, nil
}
