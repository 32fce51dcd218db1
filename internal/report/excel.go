package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/roicalc/internal/contracts"
)

// Sheet names
const (
	SheetROI    = "ROI Analysis"
	SheetAnnual = "Annual Distribution"
)

// NotAvailable is written for zero or absent figures
const NotAvailable = "N/A"

// =============================================================================
// Columns
// =============================================================================

// column is one spreadsheet column: header plus cell value
type column struct {
	header string
	width  float64
	value  func(r contracts.ROIResult) interface{}
}

// ⭐ SSOT: 엑셀 컬럼 순서
func columns(dividendHeader string) []column {
	return []column{
		{"Name", 14, func(r contracts.ROIResult) interface{} { return r.StockName }},
		{"Code", 11, func(r contracts.ROIResult) interface{} { return r.Symbol }},
		{"Price", 10, func(r contracts.ROIResult) interface{} { return figure(r.CurrentPrice) }},
		{"ROE(%)", 9, func(r contracts.ROIResult) interface{} { return figure(r.ROE) }},
		{"PB", 8, func(r contracts.ROIResult) interface{} { return figure(r.PB) }},
		{dividendHeader, 13, func(r contracts.ROIResult) interface{} { return figure(r.DividendPerShare) }},
		{"Yield(%)", 10, func(r contracts.ROIResult) interface{} { return figure(r.ROIFormula1) }},
		{"ROE/PB(%)", 11, func(r contracts.ROIResult) interface{} { return figure(r.ROIFormula2) }},
		{"Data Source", 60, func(r contracts.ROIResult) interface{} { return Provenance(r) }},
	}
}

// figure rounds to 2 places; zero renders N/A
func figure(v float64) interface{} {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return math.Round(v*100) / 100
}

// Provenance joins every per-field source of one row
func Provenance(r contracts.ROIResult) string {
	parts := []string{
		"quote: " + orUnavailable(r.DataSource),
		"dividend: " + orUnavailable(r.DividendSource),
		"roe: " + orUnavailable(r.ROESource),
		"pb: " + orUnavailable(r.PBSource),
	}
	return strings.Join(parts, "; ")
}

func orUnavailable(s string) string {
	if s == "" {
		return contracts.SourceUnavailable
	}
	return s
}

// =============================================================================
// Workbook
// =============================================================================

// WriteWorkbook writes the report spreadsheet to w
func WriteWorkbook(w io.Writer, rep *contracts.Report) error {
	f, err := buildWorkbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the report spreadsheet to path
func SaveWorkbook(path string, rep *contracts.Report) error {
	f, err := buildWorkbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(rep *contracts.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetROI); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeSheet(f, SheetROI, columns("LTM Dividend"), rep.Rows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	if len(rep.AnnualRows) > 0 {
		if _, err := f.NewSheet(SheetAnnual); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", SheetAnnual, err)
		}
		if err := writeSheet(f, SheetAnnual, columns("Annual Dividend"), rep.AnnualRows, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, cols []column, rows []contracts.ROIResult, headerStyle int) error {
	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, c.header); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, colName, colName, c.width); err != nil {
			return fmt.Errorf("%s width: %w", sheet, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}

	// 입력 순서 그대로
	for r, row := range rows {
		for i, c := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, c.value(row)); err != nil {
				return fmt.Errorf("%s row %d: %w", sheet, r+1, err)
			}
		}
	}

	return nil
}
