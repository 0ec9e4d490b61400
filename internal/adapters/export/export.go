// Package export writes attendance rows as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	domain "sura/internal/domain/export"
)

// Content types of the produced files.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SheetName is the worksheet holding the rows in XLSX exports.
const SheetName = "Asistencias"

// utf8BOM makes spreadsheet programs read the CSV as UTF-8.
const utf8BOM = "\uFEFF"

// WriteCSV writes a BOM, the header and one line per row.
// POST: every field is quoted only when it needs to be (encoding/csv rules)
func WriteCSV(w io.Writer, rows []domain.Row) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Cells()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a single sheet of rows.
// PRE: none
// POST: header in row 1, data from row 2, columns A..E
func WriteXLSX(w io.Writer, rows []domain.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, header := range domain.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return err
		}
	}
	for i, r := range rows {
		for j, value := range r.Cells() {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(SheetName, "B", "B", 30); err != nil {
		return err
	}
	return f.Write(w)
}
