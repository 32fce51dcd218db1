package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/wonny/roicalc/internal/contracts"
)

// Chart kinds
const (
	ChartYield    = "yield"    // Formula 1 bars
	ChartROEPB    = "roepb"    // Formula 2 bars
	ChartCombined = "combined" // both formulas per stock
)

// ChartKinds lists every chart in write order
var ChartKinds = []string{ChartYield, ChartROEPB, ChartCombined}

var (
	// ErrNoRows is returned when there is nothing to plot
	ErrNoRows = errors.New("report: no rows to plot")
	// ErrUnknownChart is returned for a chart kind outside ChartKinds
	ErrUnknownChart = errors.New("report: unknown chart kind")
)

// ⭐ SSOT: 차트 색상
var (
	colorYield      = drawing.ColorFromHex("4472C4")
	colorROEPB      = drawing.ColorFromHex("ED7D31")
	colorCombinedF1 = drawing.ColorFromHex("70AD47")
	colorCombinedF2 = drawing.ColorFromHex("FFC000")
)

// ChartFileName returns the PNG name of kind for the report timestamp
func ChartFileName(kind, ts string) (string, error) {
	switch kind {
	case ChartYield:
		return fmt.Sprintf("ROI_1_%s.png", ts), nil
	case ChartROEPB:
		return fmt.Sprintf("ROI_2_%s.png", ts), nil
	case ChartCombined:
		return fmt.Sprintf("ROI_%s.png", ts), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, kind)
}

// LoadFont parses a TTF file; an empty path returns nil (go-chart default font).
// CJK stock names need a CJK-capable font.
func LoadFont(path string) (*truetype.Font, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chart font: %w", err)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse chart font %s: %w", path, err)
	}
	return font, nil
}

// RenderChart draws one bar chart of rows as PNG
func RenderChart(w io.Writer, kind string, rows []contracts.ROIResult, font *truetype.Font) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	var (
		title string
		bars  []chart.Value
	)
	switch kind {
	case ChartYield:
		title = "Formula 1: Dividend Yield (%)"
		for _, r := range rows {
			bars = append(bars, bar(r.StockName, r.ROIFormula1, colorYield))
		}
	case ChartROEPB:
		title = "Formula 2: ROE / PB (%)"
		for _, r := range rows {
			bars = append(bars, bar(r.StockName, r.ROIFormula2, colorROEPB))
		}
	case ChartCombined:
		title = "ROI Comparison: Formula 1 vs Formula 2 (%)"
		for _, r := range rows {
			bars = append(bars,
				bar(r.StockName+" F1", r.ROIFormula1, colorCombinedF1),
				bar(r.StockName+" F2", r.ROIFormula2, colorCombinedF2),
			)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}

	graph := chart.BarChart{
		Title:      title,
		Font:       font,
		Width:      chartWidth(len(bars)),
		Height:     560,
		BarWidth:   60,
		BarSpacing: 30,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			// 모든 값이 0이어도 렌더링되도록 범위를 명시
			Range: valueRange(bars),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	return nil
}

func bar(name string, value float64, color drawing.Color) chart.Value {
	return chart.Value{
		Label: fmt.Sprintf("%s %.2f%%", name, value),
		Value: value,
		Style: chart.Style{
			FillColor:   color,
			StrokeColor: color,
			StrokeWidth: 1,
		},
	}
}

func chartWidth(bars int) int {
	w := bars*90 + 160
	if w < 800 {
		return 800
	}
	return w
}

func valueRange(bars []chart.Value) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	hi = math.Max(hi*1.2, 1)
	lo *= 1.2
	return &chart.ContinuousRange{Min: lo, Max: hi}
}
