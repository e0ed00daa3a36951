package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxDefaultSheet = "Sheet1"
	xlsxMaxSheetName = 31
	xlsxColumnWidth  = 18
)

// XLSXExporter renders datasets as a single-sheet Excel workbook.
type XLSXExporter struct{}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType implements Renderer.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Renderer.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes a bold header row followed by the dataset rows.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("xlsx"); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(data.Title)
	if err := f.SetSheetName(xlsxDefaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := append([]string(nil), data.Headers...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write xlsx headers: %w", err)
	}
	for i := range data.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := data.Rows[i]
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("style xlsx headers: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(data.Headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, xlsxColumnWidth); err != nil {
		return nil, fmt.Errorf("size xlsx columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName strips characters Excel rejects and enforces the sheet name length limit.
func sheetName(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	cleaned = strings.Trim(cleaned, "'")
	if cleaned == "" {
		return xlsxDefaultSheet
	}
	if runes := []rune(cleaned); len(runes) > xlsxMaxSheetName {
		cleaned = string(runes[:xlsxMaxSheetName])
	}
	return cleaned
}
