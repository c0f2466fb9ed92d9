package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/darklink/internal/model"
)

const (
	// ResultsSheet holds one row per URL.
	ResultsSheet = "Results"

	// AttemptsSheet holds one row per device profile attempt.
	AttemptsSheet = "Attempts"
)

// attemptColumns are the columns of AttemptsSheet.
var attemptColumns = []string{"URL", "Profile", "Status code", "Error", "Body SHA3-256", "Duration (ms)"}

// columnWidths are applied to ResultsSheet, by column letter.
var columnWidths = map[string]float64{
	"A": 60, "B": 10, "C": 16, "D": 10, "E": 40, "F": 50, "G": 40,
}

// XLSXWriter writes the run as an Excel workbook.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{baseWriter: newBaseWriter(output)}
}

// Write builds the workbook and writes it to the output.
func (w *XLSXWriter) Write(summary *model.RunSummary) (err error) {
	if summary == nil {
		return ErrNilSummary
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := w.writeResults(f, summary); err != nil {
		return err
	}
	if _, err := f.NewSheet(AttemptsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := w.writeAttempts(f, summary); err != nil {
		return err
	}

	if err := f.Write(w.output); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) writeResults(f *excelize.File, s *model.RunSummary) error {
	if err := writeHeaderRow(f, ResultsSheet, Columns); err != nil {
		return err
	}

	darkStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	row := 2
	for _, r := range s.Results {
		if r == nil {
			continue
		}
		if err := setRow(f, ResultsSheet, row, toCells(Row(r))); err != nil {
			return err
		}
		if r.DarkLink {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(Columns), row)
			if err := f.SetCellStyle(ResultsSheet, first, last, darkStyle); err != nil {
				return fmt.Errorf("failed to style row %d: %w", row, err)
			}
		}
		row++
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(ResultsSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(Columns), row-1)
	if err := f.AutoFilter(ResultsSheet, "A1:"+last, nil); err != nil {
		return fmt.Errorf("failed to add filter: %w", err)
	}
	return nil
}

func (w *XLSXWriter) writeAttempts(f *excelize.File, s *model.RunSummary) error {
	if err := writeHeaderRow(f, AttemptsSheet, attemptColumns); err != nil {
		return err
	}

	row := 2
	for _, r := range s.Results {
		if r == nil {
			continue
		}
		for _, a := range r.Attempts {
			cells := []any{r.URL, string(a.Profile), a.StatusCode, a.Error, a.BodyHash, a.Duration.Milliseconds()}
			if err := setRow(f, AttemptsSheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(AttemptsSheet, "A", "A", 60)
}

// writeHeaderRow writes bold column names and freezes the first row.
func writeHeaderRow(f *excelize.File, sheet string, names []string) error {
	if err := setRow(f, sheet, 1, toCells(names)); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(names), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
