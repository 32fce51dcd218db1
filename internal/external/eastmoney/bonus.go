package eastmoney

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/wonny/roicalc/internal/contracts"
)

// Bonus returns the distribution plan of symbol for one report period,
// or nil when the period has none. Implements dividend.BonusSource.
func (c *Client) Bonus(ctx context.Context, symbol, reportDate string) (*contracts.BonusRecord, error) {
	_, code, err := contracts.ParseSymbol(symbol)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("sortColumns", "PLAN_NOTICE_DATE")
	params.Set("sortTypes", "-1")
	params.Set("pageSize", "50")
	params.Set("pageNumber", "1")
	params.Set("reportName", "RPT_SHAREBONUS_DET")
	params.Set("columns", "ALL")
	params.Set("source", "WEB")
	params.Set("client", "WEB")
	params.Set("filter", fmt.Sprintf(`(REPORT_DATE='%s')(SECURITY_CODE="%s")`, reportDate, code))

	body, err := c.fetchJSON(ctx, c.bonusURL, params)
	if err != nil {
		return nil, err
	}

	rec, err := ParseBonus(body, code)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", symbol, reportDate, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":      symbol,
		"report_date": reportDate,
		"found":       rec != nil,
	}).Debug("Fetched share bonus")

	return rec, nil
}

// ParseBonus finds the row of code in an RPT_SHAREBONUS_DET response.
// PRETAX_BONUS_RMB and BONUS_RATIO are per 10 shares; DIVIDENT_RATIO is a
// yield fraction. An empty table ("result": null) yields nil.
func ParseBonus(body []byte, code string) (*contracts.BonusRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON")
	}

	data := gjson.GetBytes(body, "result.data")
	if !data.Exists() || !data.IsArray() {
		return nil, nil
	}

	for _, v := range data.Array() {
		if v.Get("SECURITY_CODE").String() != code {
			continue
		}
		return &contracts.BonusRecord{
			ReportDate:   reportDay(v.Get("REPORT_DATE").String()),
			ExDate:       reportDay(v.Get("EX_DIVIDEND_DATE").String()),
			CashPerShare: v.Get("PRETAX_BONUS_RMB").Float() / 10,
			BonusRatio:   v.Get("BONUS_RATIO").Float() / 10,
			Yield:        v.Get("DIVIDENT_RATIO").Float() * 100,
		}, nil
	}
	return nil, nil
}
