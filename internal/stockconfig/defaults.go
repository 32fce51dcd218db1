package stockconfig

import "github.com/wonny/roicalc/internal/contracts"

// Default returns the built-in settings used when no settings file exists
func Default() *Settings {
	return &Settings{
		Stocks: []contracts.StockConfig{
			{Name: "东阿阿胶", Symbol: "SZ000423"},
			{Name: "五粮液", Symbol: "SZ000858"},
			{Name: "贵州茅台", Symbol: "SH600519"},
			{Name: "洋河股份", Symbol: "SZ002304"},
		},
		ROEOverrides: map[string]float64{
			"SZ002304": 20.0,
		},
		Notes: map[string]string{
			"SH600519": "【保底分红】贵州茅台：需查阅公司公告确认是否有未来三年保底分红承诺",
			"SZ000858": "【保底分红】五粮液：需查阅公司公告确认是否有未来三年保底分红承诺",
			"SZ000423": "【保底分红】东阿阿胶：需查阅公司公告确认是否有未来三年保底分红承诺",
			"SZ002304": "【保底分红】洋河股份：需查阅公司公告确认是否有未来三年保底分红承诺",
		},
		DefaultNote: "【保底分红】需查阅公司公告确认",
	}
}
