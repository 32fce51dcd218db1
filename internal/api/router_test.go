package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roicalc/internal/api/handlers"
	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/internal/stockconfig"
	"github.com/wonny/roicalc/pkg/logger"
)

// fakeReporter echoes the requested stocks as rows
type fakeReporter struct {
	mu   sync.Mutex
	last *stockconfig.Settings
	runs int
	err  error
}

func (f *fakeReporter) Run(_ context.Context, settings *stockconfig.Settings) (*contracts.Report, error) {
	f.mu.Lock()
	f.last = settings
	f.runs++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if len(settings.Stocks) == 0 {
		return nil, stockconfig.ErrNoStocks
	}

	rep := &contracts.Report{
		GeneratedAt: time.Date(2025, 10, 15, 15, 30, 0, 0, time.UTC),
		Mode:        contracts.ModeSnapshot,
	}
	for i, s := range settings.Stocks {
		name := s.Name
		if name == "" {
			name = "quoted-" + s.Symbol
		}
		rep.Rows = append(rep.Rows, contracts.ROIResult{
			StockName:   name,
			Symbol:      s.Symbol,
			ROIFormula1: float64(i + 1),
			ROIFormula2: float64(i + 2),
		})
	}
	return rep, nil
}

func newTestRouter(t *testing.T, rep *fakeReporter) http.Handler {
	t.Helper()
	settings := &stockconfig.Settings{
		Stocks: []contracts.StockConfig{
			{Name: "Moutai", Symbol: "SH600519"},
			{Name: "Wuliangye", Symbol: "SZ000858"},
		},
	}
	h := handlers.NewROIHandler(rep, settings, nil, logger.NewNop())
	return NewRouter(h, logger.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeReporter{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestGetStocks(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeReporter{}), http.MethodGet, "/api/stocks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.StocksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "SH600519", resp.Data[0].Symbol)
}

func TestGetReport(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeReporter{}), http.MethodGet, "/api/report", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    contracts.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Rows, 2)
	assert.Equal(t, "Wuliangye", resp.Data.Rows[1].StockName)
}

func TestGetReportFailure(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeReporter{err: errors.New("boom")}), http.MethodGet, "/api/report", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestQuery(t *testing.T) {
	rep := &fakeReporter{}
	rec := do(t, newTestRouter(t, rep), http.MethodPost, "/api/query", `{"symbols":["sz000858","SH601318","SZ000858"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// 등록 종목은 설정 이름, 미등록은 시세 이름
	require.Len(t, rep.last.Stocks, 2)
	assert.Equal(t, contracts.StockConfig{Name: "Wuliangye", Symbol: "SZ000858"}, rep.last.Stocks[0])
	assert.Equal(t, contracts.StockConfig{Symbol: "SH601318"}, rep.last.Stocks[1])
	assert.Contains(t, rec.Body.String(), "quoted-SH601318")
}

// symbolsBody is a query of n copies of one symbol
func symbolsBody(n int) string {
	return `{"symbols":[` + strings.TrimSuffix(strings.Repeat(`"SH600519",`, n), ",") + `]}`
}

func TestQueryAtLimit(t *testing.T) {
	rep := &fakeReporter{}
	rec := do(t, newTestRouter(t, rep), http.MethodPost, "/api/query", symbolsBody(handlers.MaxQuerySymbols))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rep.last.Stocks, 1)
}

func TestQueryRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty list", `{"symbols":[]}`},
		{"missing list", `{}`},
		{"bad exchange", `{"symbols":["HK00700"]}`},
		{"bad code", `{"symbols":["SH60A519"]}`},
		{"not json", `symbols=SH600519`},
		{"too many symbols", symbolsBody(handlers.MaxQuerySymbols + 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &fakeReporter{}
			rec := do(t, newTestRouter(t, rep), http.MethodPost, "/api/query", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, rep.last, "nothing is fetched for a rejected query")
		})
	}
}

func TestGetChart(t *testing.T) {
	router := newTestRouter(t, &fakeReporter{})

	rec := do(t, router, http.MethodGet, "/api/charts/yield.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(t, router, http.MethodGet, "/api/charts/pie.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndex(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeReporter{}), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<table>")
	assert.Contains(t, rec.Body.String(), "Moutai")
}

func TestIndexInlinesEveryChart(t *testing.T) {
	rep := &fakeReporter{}
	rec := do(t, newTestRouter(t, rep), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, 3, strings.Count(body, `src="data:image/png;base64,`))
	assert.Contains(t, body, `alt="combined"`)
	assert.NotContains(t, body, "/api/charts/")
	assert.Equal(t, 1, rep.runs, "page and charts come from one report")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
