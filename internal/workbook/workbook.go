// Package workbook decodes uploaded spreadsheet files into the rectangular
// cell grids the parsing engine consumes.
package workbook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cogenworks/plantparse/internal/engine"
)

// Workbook is an opened spreadsheet. Close releases the underlying file.
type Workbook struct {
	file *excelize.File
}

// Open reads a whole .xlsx workbook from r.
func Open(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// Close releases the workbook's resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames returns the workbook's sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Grid extracts one sheet as a rectangular grid. Raw cell values are kept so
// the engine sees what the author typed, not Excel's display formatting.
// Short rows are padded with blank cells to the sheet's widest row.
func (w *Workbook) Grid(sheet string) (engine.Grid, error) {
	names := w.SheetNames()
	known := false
	for _, n := range names {
		if n == sheet {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("sheet %q not found; workbook has: %s", sheet, strings.Join(names, ", "))
	}

	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	grid := make(engine.Grid, len(rows))
	for i, row := range rows {
		cells := make(engine.Row, width)
		for j := 0; j < width; j++ {
			if j < len(row) {
				cells[j] = w.typedCell(sheet, i, j, row[j])
			} else {
				cells[j] = engine.Cell{Blank: true}
			}
		}
		grid[i] = cells
	}
	return grid, nil
}

// typedCell converts one raw cell, surfacing the workbook's native number
// and boolean types so value coercion can pass them through untouched.
// String cells, formulas, and anything unrecognized stay text.
func (w *Workbook) typedCell(sheet string, row, col int, raw string) engine.Cell {
	if strings.TrimSpace(raw) == "" {
		return engine.Cell{Blank: true}
	}

	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return engine.StringCell(raw)
	}
	ct, err := w.file.GetCellType(sheet, name)
	if err != nil {
		return engine.StringCell(raw)
	}

	switch ct {
	case excelize.CellTypeBool:
		return engine.BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// Number cells carry no explicit type attribute in the sheet XML.
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return engine.NumberCell(v)
		}
	}
	return engine.StringCell(raw)
}

// FirstSheet returns the name of the first sheet, or "" for an empty workbook.
func (w *Workbook) FirstSheet() string {
	names := w.SheetNames()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// DecodeGrid reads an upload into a grid, dispatching on the filename
// extension. CSV files have exactly one unnamed sheet; .xlsx files use the
// named sheet, or the first one when sheet is empty.
func DecodeGrid(r io.Reader, filename, sheet string) (engine.Grid, string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		grid, err := csvGrid(r)
		if err != nil {
			return nil, "", err
		}
		return grid, filename, nil
	case ".xlsx", ".xlsm":
		wb, err := Open(r)
		if err != nil {
			return nil, "", err
		}
		defer wb.Close()

		if sheet == "" {
			sheet = wb.FirstSheet()
		}
		grid, err := wb.Grid(sheet)
		if err != nil {
			return nil, "", err
		}
		return grid, sheet, nil
	default:
		return nil, "", fmt.Errorf("unsupported file type %q; expected .xlsx, .xlsm, or .csv", filepath.Ext(filename))
	}
}

// csvGrid decodes a CSV stream, tolerating rows of varying width.
func csvGrid(r io.Reader) (engine.Grid, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return padGrid(records), nil
}

// padGrid converts string rows into a rectangular engine.Grid.
func padGrid(rows [][]string) engine.Grid {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	grid := make(engine.Grid, len(rows))
	for i, row := range rows {
		cells := make(engine.Row, width)
		for j := 0; j < width; j++ {
			if j < len(row) {
				cells[j] = engine.StringCell(row[j])
			} else {
				cells[j] = engine.Cell{Blank: true}
			}
		}
		grid[i] = cells
	}
	return grid
}
