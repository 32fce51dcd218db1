package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/wonny/roicalc/internal/contracts"
)

// Summary styles understood by RenderTerminal
const (
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
)

// Ranked is one ranking entry
type Ranked struct {
	Rank   int
	Name   string
	Symbol string
	Value  float64
}

// Rank orders the rows with a positive value, descending.
// Ties keep input order.
func Rank(rows []contracts.ROIResult, value func(contracts.ROIResult) float64) []Ranked {
	var out []Ranked
	for _, r := range rows {
		if v := value(r); v > 0 {
			out = append(out, Ranked{Name: r.StockName, Symbol: r.Symbol, Value: v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// FormatPrice renders a price in CNY; zero is N/A
func FormatPrice(price float64) string {
	if price <= 0 {
		return NotAvailable
	}
	return money.NewFromFloat(price, money.CNY).Display()
}

// Markdown renders the summary: table, both rankings, legend and notes
func Markdown(rep *contracts.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# ROI Report %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Dividend mode: **%s**, %d stocks\n\n", rep.Mode, len(rep.Rows))

	writeTable(&b, rep.Rows, "Dividend")

	b.WriteString("## Formula 1 ranking (dividend yield)\n\n")
	writeRanking(&b, Rank(rep.Rows, func(r contracts.ROIResult) float64 { return r.ROIFormula1 }))

	b.WriteString("## Formula 2 ranking (ROE / PB)\n\n")
	writeRanking(&b, Rank(rep.Rows, func(r contracts.ROIResult) float64 { return r.ROIFormula2 }))

	if len(rep.AnnualRows) > 0 {
		b.WriteString("## Annual distribution\n\n")
		writeTable(&b, rep.AnnualRows, "Annual Dividend")
	}

	b.WriteString("## Legend\n\n")
	b.WriteString("- **Formula 1**: reported dividend yield, else dividend per share / price × 100\n")
	b.WriteString("- **Formula 2**: ROE / PB, the return on the price paid for book value\n")
	b.WriteString("- Dividend per share counts each bonus share as 0.1\n")
	fmt.Fprintf(&b, "- `%s` and `%s` mean the figure could not be fetched or computed\n\n", NotAvailable, contracts.SourceUnavailable)

	var notes []string
	for _, r := range rep.Rows {
		if r.GuaranteedNote != "" {
			notes = append(notes, fmt.Sprintf("%s (%s): %s", escape(r.StockName), r.Symbol, escape(r.GuaranteedNote)))
		}
		if r.Degraded() {
			notes = append(notes, fmt.Sprintf("%s (%s): %s for %s", escape(r.StockName), r.Symbol,
				contracts.SourceUnavailable, strings.Join(r.Unavailable, ", ")))
		}
	}
	for _, n := range rep.Notes {
		notes = append(notes, escape(n))
	}
	if len(notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeTable(b *strings.Builder, rows []contracts.ROIResult, dividendHeader string) {
	fmt.Fprintf(b, "| Name | Code | Price | ROE(%%) | PB | %s | Formula 1 (%%) | Formula 2 (%%) | Source |\n", dividendHeader)
	b.WriteString("|---|---|--:|--:|--:|--:|--:|--:|---|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			escape(r.StockName),
			r.Symbol,
			FormatPrice(r.CurrentPrice),
			cell(r.ROE),
			cell(r.PB),
			cell(r.DividendPerShare),
			cell(r.ROIFormula1),
			cell(r.ROIFormula2),
			escape(Provenance(r)),
		)
	}
	b.WriteString("\n")
}

func writeRanking(b *strings.Builder, ranked []Ranked) {
	if len(ranked) == 0 {
		b.WriteString("_No positive values._\n\n")
		return
	}
	for _, r := range ranked {
		fmt.Fprintf(b, "%d. %s (%s): %.2f%%\n", r.Rank, escape(r.Name), r.Symbol, r.Value)
	}
	b.WriteString("\n")
}

func cell(v float64) string {
	if v == 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", v)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderTerminal renders the markdown summary for a terminal
func RenderTerminal(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("summary renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return out, nil
}

// markdownHTML converts summaries to HTML (GFM tables)
var markdownHTML = goldmark.New(goldmark.WithExtensions(extension.Table))

// RenderHTML converts the markdown summary to an HTML fragment
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdownHTML.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
