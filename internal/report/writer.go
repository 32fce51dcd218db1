package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/pkg/logger"
)

// Artifacts are the files written for one report
type Artifacts struct {
	Workbook string   `json:"workbook"`
	Charts   []string `json:"charts,omitempty"`
	Summary  string   `json:"summary"`
}

// Writer persists reports under one output directory
// ⭐ SSOT: 리포트 파일 생성은 여기서만
type Writer struct {
	dir    string
	font   *truetype.Font
	logger *logger.Logger
}

// NewWriter creates a writer; font may be nil
func NewWriter(dir string, font *truetype.Font, log *logger.Logger) *Writer {
	return &Writer{dir: dir, font: font, logger: log}
}

// Font returns the chart font, nil for the default
func (w *Writer) Font() *truetype.Font {
	return w.font
}

// Write saves the workbook, the charts and the markdown summary.
// Charts are skipped when the report has no rows.
func (w *Writer) Write(rep *contracts.Report) (*Artifacts, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	ts := rep.Timestamp()
	out := &Artifacts{
		Workbook: filepath.Join(w.dir, fmt.Sprintf("roi_%s.xlsx", ts)),
		Summary:  filepath.Join(w.dir, fmt.Sprintf("roi_%s.md", ts)),
	}

	if err := SaveWorkbook(out.Workbook, rep); err != nil {
		return nil, err
	}

	if len(rep.Rows) == 0 {
		w.logger.Warn("No rows, charts skipped")
	} else {
		for _, kind := range ChartKinds {
			path, err := w.writeChart(kind, ts, rep.Rows)
			if err != nil {
				return nil, err
			}
			out.Charts = append(out.Charts, path)
		}
	}

	if err := os.WriteFile(out.Summary, []byte(Markdown(rep)), 0o644); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"workbook": out.Workbook,
		"charts":   len(out.Charts),
	}).Info("Report written")

	return out, nil
}

func (w *Writer) writeChart(kind, ts string, rows []contracts.ROIResult) (string, error) {
	name, err := ChartFileName(kind, ts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	if err := RenderChart(f, kind, rows, w.font); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close chart file: %w", err)
	}
	return path, nil
}
