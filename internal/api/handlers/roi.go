package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"slices"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/gorilla/mux"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/internal/report"
	"github.com/wonny/roicalc/internal/stockconfig"
	"github.com/wonny/roicalc/pkg/logger"
)

// MaxQuerySymbols caps POST /api/query; every symbol costs a provider pass
const MaxQuerySymbols = 50

// Reporter computes one report for a stock list
type Reporter interface {
	Run(ctx context.Context, settings *stockconfig.Settings) (*contracts.Report, error)
}

// ROIHandler serves ROI reports computed on demand
// SSOT: 요청마다 새로 계산, 저장하지 않음
type ROIHandler struct {
	reporter Reporter
	settings *stockconfig.Settings
	font     *truetype.Font
	logger   *logger.Logger
}

// NewROIHandler creates a new ROI handler; font may be nil
func NewROIHandler(
	reporter Reporter,
	settings *stockconfig.Settings,
	font *truetype.Font,
	log *logger.Logger,
) *ROIHandler {
	return &ROIHandler{
		reporter: reporter,
		settings: settings,
		font:     font,
		logger:   log,
	}
}

// StocksResponse represents the configured stock list
type StocksResponse struct {
	Success bool                    `json:"success"`
	Data    []contracts.StockConfig `json:"data"`
}

// ReportResponse wraps one computed report
type ReportResponse struct {
	Success bool              `json:"success"`
	Data    *contracts.Report `json:"data"`
}

// QueryRequest is the body of POST /api/query
type QueryRequest struct {
	Symbols []string `json:"symbols"`
}

// GetStocks returns the configured stock list
// GET /api/stocks
func (h *ROIHandler) GetStocks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StocksResponse{Success: true, Data: h.settings.Stocks})
}

// GetReport computes the report for the configured list
// GET /api/report
func (h *ROIHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r, h.settings)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ReportResponse{Success: true, Data: rep})
}

// Query computes the report for an ad-hoc symbol list
// POST /api/query
func (h *ROIHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Symbols) == 0 {
		respondError(w, http.StatusBadRequest, "Symbols must not be empty")
		return
	}
	if len(req.Symbols) > MaxQuerySymbols {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("At most %d symbols per query", MaxQuerySymbols))
		return
	}

	stocks := make([]contracts.StockConfig, 0, len(req.Symbols))
	for _, raw := range req.Symbols {
		symbol, err := contracts.NormalizeSymbol(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if slices.ContainsFunc(stocks, func(s contracts.StockConfig) bool { return s.Symbol == symbol }) {
			continue
		}
		// 미등록 종목은 시세에서 이름을 가져옴
		stock, ok := h.settings.Lookup(symbol)
		if !ok {
			stock = contracts.StockConfig{Symbol: symbol}
		}
		stocks = append(stocks, stock)
	}

	rep, ok := h.run(w, r, h.settings.WithStocks(stocks))
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ReportResponse{Success: true, Data: rep})
}

// GetChart renders one chart of the configured list
// GET /api/charts/{kind}.png
func (h *ROIHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if !slices.Contains(report.ChartKinds, kind) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Unknown chart %q", kind))
		return
	}

	rep, ok := h.run(w, r, h.settings)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.RenderChart(&buf, kind, rep.Rows, h.font); err != nil {
		h.logger.WithError(err).Error("Failed to render chart")
		respondError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Index renders the HTML summary of the configured list with every chart
// inlined from the same report
// GET /
func (h *ROIHandler) Index(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r, h.settings)
	if !ok {
		return
	}

	body, err := report.RenderHTML(report.Markdown(rep))
	if err != nil {
		h.logger.WithError(err).Error("Failed to render summary")
		respondError(w, http.StatusInternalServerError, "Failed to render summary")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, indexPage, html.EscapeString("ROI "+rep.Timestamp()), body, h.inlineCharts(rep))
}

// inlineCharts renders ChartKinds as data-URI images; a failed chart is left out
func (h *ROIHandler) inlineCharts(rep *contracts.Report) string {
	var b strings.Builder
	for _, kind := range report.ChartKinds {
		var buf bytes.Buffer
		if err := report.RenderChart(&buf, kind, rep.Rows, h.font); err != nil {
			h.logger.WithField("chart", kind).WithError(err).Warn("Chart skipped")
			continue
		}
		fmt.Fprintf(&b, "<img src=\"data:image/png;base64,%s\" alt=\"%s\">\n",
			base64.StdEncoding.EncodeToString(buf.Bytes()), kind)
	}
	return b.String()
}

func (h *ROIHandler) run(w http.ResponseWriter, r *http.Request, settings *stockconfig.Settings) (*contracts.Report, bool) {
	rep, err := h.reporter.Run(r.Context(), settings)
	if err != nil {
		if errors.Is(err, stockconfig.ErrNoStocks) {
			respondError(w, http.StatusBadRequest, "No stocks configured")
			return nil, false
		}
		h.logger.WithError(err).Error("Failed to compute report")
		respondError(w, http.StatusInternalServerError, "Failed to compute report")
		return nil, false
	}
	return rep, true
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
th { background: #4472C4; color: #fff; }
</style>
</head>
<body>
%s
<p>
%s</p>
</body>
</html>
`
