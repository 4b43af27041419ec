package engine

import (
	"strconv"
	"strings"
)

// Cell is one raw grid cell as handed over by the decoding collaborator.
//
// Decoders that know the native cell type set Number or Bool; string-only
// decoders just fill Raw. A cell with none of the three set and an empty
// Raw is blank.
type Cell struct {
	Raw    string
	Number *float64
	Bool   *bool
	Blank  bool
}

// StringCell builds a Cell from plain text.
func StringCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Blank: true}
	}
	return Cell{Raw: s}
}

// NumberCell builds a Cell carrying a native numeric value.
func NumberCell(v float64) Cell {
	return Cell{Raw: strconv.FormatFloat(v, 'f', -1, 64), Number: &v}
}

// BoolCell builds a Cell carrying a native boolean value.
func BoolCell(v bool) Cell {
	b := v
	raw := "FALSE"
	if v {
		raw = "TRUE"
	}
	return Cell{Raw: raw, Bool: &b}
}

// IsBlank reports whether the cell holds no value at all.
func (c Cell) IsBlank() bool {
	return c.Blank || (c.Number == nil && c.Bool == nil && strings.TrimSpace(c.Raw) == "")
}

// RawValue returns the original value for inclusion in reports: the native
// number or bool when present, the raw string otherwise, nil when blank.
func (c Cell) RawValue() any {
	switch {
	case c.Number != nil:
		return *c.Number
	case c.Bool != nil:
		return *c.Bool
	case c.IsBlank():
		return nil
	default:
		return c.Raw
	}
}

// Row is an ordered sequence of cells; Grid an ordered sequence of rows.
// The engine requires grids to be rectangular.
type (
	Row  = []Cell
	Grid = [][]Cell
)

// StringGrid converts a grid of strings into a Grid, mostly for tests and
// JSON input.
func StringGrid(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		g[i] = make(Row, len(row))
		for j, s := range row {
			g[i][j] = StringCell(s)
		}
	}
	return g
}
