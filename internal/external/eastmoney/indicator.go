package eastmoney

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/wonny/roicalc/internal/contracts"
)

// Indicators implements contracts.IndicatorProvider.
// Rows come back newest first.
func (c *Client) Indicators(ctx context.Context, symbol string) ([]contracts.IndicatorRow, error) {
	secuCode, err := contracts.SecuCode(symbol)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("type", "RPT_F10_FINANCE_MAINFINADATA")
	params.Set("sty", "APP_F10_MAINFINADATA")
	params.Set("quoteColumns", "")
	params.Set("filter", fmt.Sprintf(`(SECUCODE="%s")`, secuCode))
	params.Set("p", "1")
	params.Set("ps", "200")
	params.Set("sr", "-1")
	params.Set("st", "REPORT_DATE")
	params.Set("source", "HSF10")
	params.Set("client", "PC")

	body, err := c.fetchJSON(ctx, c.indicatorURL, params)
	if err != nil {
		return nil, err
	}

	rows, err := ParseIndicators(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"rows":   len(rows),
	}).Debug("Fetched financial indicators")

	return rows, nil
}

// ParseIndicators extracts REPORT_DATE, REPORT_TYPE, ROEJQ and BPS from result.data.
// A missing or empty table yields no rows, not an error.
func ParseIndicators(body []byte) ([]contracts.IndicatorRow, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON")
	}

	data := gjson.GetBytes(body, "result.data")
	if !data.Exists() || !data.IsArray() {
		return nil, nil
	}

	arr := data.Array()
	rows := make([]contracts.IndicatorRow, 0, len(arr))
	for _, v := range arr {
		date := reportDay(v.Get("REPORT_DATE").String())
		if date == "" {
			continue
		}
		rows = append(rows, contracts.IndicatorRow{
			ReportDate: date,
			ReportType: v.Get("REPORT_TYPE").String(),
			ROE:        v.Get("ROEJQ").Float(),
			BPS:        v.Get("BPS").Float(),
		})
	}
	return rows, nil
}
