// Package export writes filtered applications as spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Applications"

// maxCellChars is the XLSX limit on text per cell.
const maxCellChars = 32767

// skipped columns carry large blobs that do not belong in a spreadsheet.
var skipped = map[string]bool{
	"agreement_text":            true,
	"code_of_conduct_signature": true,
}

// Column is one exported column.
type Column struct {
	Header string
	Value  func(a *models.Application) string
}

// Columns lists the exported columns in order.
func Columns() []Column {
	cols := []Column{
		{"ID", func(a *models.Application) string { return a.ID }},
		{"Created", func(a *models.Application) string { return formatTime(a.CreatedAt) }},
	}
	for _, f := range models.StringFields() {
		if skipped[f.Column] {
			continue
		}
		ptr := f.Ptr
		if f.Column == "agent" {
			cols = append(cols, Column{f.Header, func(a *models.Application) string { return a.AgentOrDefault() }})
			continue
		}
		cols = append(cols, Column{f.Header, func(a *models.Application) string { return *ptr(a) }})
	}
	cols = append(cols, Column{"Custom Schedule A", func(a *models.Application) string {
		if jsonfix.IsPresent(a.CustomScheduleA) {
			return "Yes"
		}
		return "No"
	}})
	return cols
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// CSV writes apps as comma-separated values with a header row.
func CSV(w io.Writer, apps []models.Application) error {
	cols := Columns()
	cw := csv.NewWriter(w)

	record := make([]string, len(cols))
	for i, c := range cols {
		record[i] = c.Header
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range apps {
		for j, c := range cols {
			record[j] = c.Value(&apps[i])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSX writes apps as a single-sheet workbook.
func XLSX(w io.Writer, apps []models.Application) error {
	cols := Columns()

	f := excelize.NewFile()
	defer f.Close()

	// 1. --- Sheet Setup ---
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F0F0F0"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// 2. --- Header Row ---
	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, c.Header); err != nil {
			return fmt.Errorf("failed to write header %q: %w", c.Header, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	// 3. --- Data Rows ---
	for i := range apps {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = truncate(c.Value(&apps[i]), maxCellChars)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 20); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
