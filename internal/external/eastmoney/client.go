package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/roicalc/pkg/httputil"
	"github.com/wonny/roicalc/pkg/logger"
)

// Source is the provenance label of Eastmoney data
const Source = "eastmoney"

// Referer is required by the datacenter; set it on the client with httputil.WithHeader
const Referer = "https://data.eastmoney.com/"

// Client handles communication with the Eastmoney datacenter
// ⭐ SSOT: 동방재부 datacenter 호출은 이 클라이언트에서만
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	indicatorURL string
	bonusURL     string
}

// NewClient creates a new Eastmoney datacenter client
func NewClient(httpClient *httputil.Client, log *logger.Logger, indicatorURL, bonusURL string) *Client {
	return &Client{
		httpClient:   httpClient,
		logger:       log,
		indicatorURL: indicatorURL,
		bonusURL:     bonusURL,
	}
}

// fetchJSON fetches a datacenter endpoint with query params
func (c *Client) fetchJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	fullURL := endpoint
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		fullURL = endpoint + sep + params.Encode()
	}

	body, err := c.httpClient.Fetch(ctx, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("eastmoney request failed: %w", err)
	}
	return body, nil
}

// reportDay trims "2024-12-31 00:00:00" to "2024-12-31"
func reportDay(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
