package engine

// headerrow.go locates the header row within the leading rows of a sheet.
//
// Real-world sheets frequently open with title or metadata rows before the
// actual column labels. Each candidate row is scored on how label-like it
// is; the best-scoring row above an acceptance threshold wins. Title rows
// tend to be sparse, so the later, denser label row beats them.

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultHeaderScanRows bounds how deep the locator looks for a header row.
const DefaultHeaderScanRows = 10

// headerScoreThreshold is the minimum score a row must reach to be
// accepted as the header. Below it the locator reports "not found" and
// the caller falls back to row 0 with a warning.
const headerScoreThreshold = 0.45

// headerDateLayouts covers the date formats that show up in metadata rows
// and first data columns.
var headerDateLayouts = []string{
	"2006-01-02", "02/01/2006", "01/02/2006", "2/1/2006", "1/2/2006",
	"02-01-2006", "Jan 2, 2006", "2 Jan 2006",
}

// LocateHeaderRow returns the zero-based index of the row judged to be the
// header row within the first scanRows rows, and whether any row
// qualified. Ties keep the earliest index.
func LocateHeaderRow(grid Grid, scanRows int) (int, bool) {
	if scanRows <= 0 {
		scanRows = DefaultHeaderScanRows
	}
	limit := len(grid)
	if limit > scanRows {
		limit = scanRows
	}

	bestIdx, bestScore := -1, 0.0
	for i := 0; i < limit; i++ {
		score := headerRowScore(grid, i)
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestIdx < 0 || bestScore < headerScoreThreshold {
		return 0, false
	}
	return bestIdx, true
}

// headerRowScore combines cell density, label dominance, and a bonus when
// the following row looks like data (numeric-dominant under a
// label-dominant candidate).
func headerRowScore(grid Grid, idx int) float64 {
	row := grid[idx]
	if len(row) == 0 {
		return 0
	}

	nonBlank, labels := 0, 0
	for _, c := range row {
		if c.IsBlank() {
			continue
		}
		nonBlank++
		if looksLikeLabel(c) {
			labels++
		}
	}

	n := float64(len(row))
	nonBlankFrac := float64(nonBlank) / n
	labelFrac := float64(labels) / n
	score := 0.4*nonBlankFrac + 0.6*labelFrac

	if labelFrac > 0.5 && idx+1 < len(grid) && numericFraction(grid[idx+1]) > 0.5 {
		score += 0.2
	}
	return score
}

// numericFraction is the share of non-blank cells in a row holding numeric
// or date values.
func numericFraction(row Row) float64 {
	nonBlank, numeric := 0, 0
	for _, c := range row {
		if c.IsBlank() {
			continue
		}
		nonBlank++
		if looksLikeValue(c) {
			numeric++
		}
	}
	if nonBlank == 0 {
		return 0
	}
	return float64(numeric) / float64(nonBlank)
}

// looksLikeLabel reports whether a cell reads as a column label:
// alphabetic-dominant text rather than a bare number or date.
func looksLikeLabel(c Cell) bool {
	if c.IsBlank() || c.Number != nil || c.Bool != nil {
		return false
	}
	s := strings.TrimSpace(c.Raw)
	if len(s) < 2 || looksLikeValue(c) {
		return false
	}

	letters, digits := 0, 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	return letters > 0 && letters >= digits
}

// looksLikeValue reports whether a cell holds a numeric or date value.
func looksLikeValue(c Cell) bool {
	if c.Number != nil {
		return true
	}
	if c.Bool != nil || c.IsBlank() {
		return false
	}

	s := strings.TrimSpace(c.Raw)
	cleaned := strings.ReplaceAll(strings.TrimSuffix(s, "%"), ",", "")
	if _, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return true
	}
	for _, layout := range headerDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
