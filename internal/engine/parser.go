package engine

// parser.go assembles the per-sheet Report: header location, per-column
// resolution, per-cell value coercion, duplicate detection, and the
// summary views. Columns and row chunks are processed by worker
// goroutines; every result is merged by index, so output is identical
// regardless of parallelism.

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cogenworks/plantparse/internal/registry"
)

// Defaults for the chunking knobs. Chunk size bounds peak memory per
// worker; it never changes results.
const (
	DefaultChunkSize = 200
	DefaultWorkers   = 4
)

// Options configures a Parser.
type Options struct {
	// HeaderScanRows bounds the header-row search (default 10).
	HeaderScanRows int

	// ChunkSize is the number of data rows per worker batch.
	ChunkSize int

	// Workers is the maximum number of concurrent batch workers.
	Workers int

	// Suggester, when non-nil, is consulted for headers the internal
	// stages could not map at medium confidence or better.
	Suggester Suggester

	// SuggestTimeout bounds each suggestion call.
	SuggestTimeout time.Duration
}

// Parser turns raw grids into Reports against a fixed registry.
// It is stateless across invocations and safe for concurrent use.
type Parser struct {
	reg      *registry.Registry
	resolver *Resolver

	headerScanRows int
	chunkSize      int
	workers        int
}

// NewParser builds a Parser for the given registry.
func NewParser(reg *registry.Registry, opts Options) *Parser {
	if opts.HeaderScanRows <= 0 {
		opts.HeaderScanRows = DefaultHeaderScanRows
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	var ropts []ResolverOption
	if opts.Suggester != nil {
		ropts = append(ropts, WithSuggester(opts.Suggester, opts.SuggestTimeout))
	}

	return &Parser{
		reg:            reg,
		resolver:       NewResolver(reg, ropts...),
		headerScanRows: opts.HeaderScanRows,
		chunkSize:      opts.ChunkSize,
		workers:        opts.Workers,
	}
}

// ParseSheet parses one sheet's grid into a Report.
//
// Structural problems inside the sheet (no header row, empty sheet,
// unmappable columns, bad cells) degrade the Report with warnings but
// never fail it. The only error case is a malformed grid: ragged rows
// violate the input contract and fail fast before any cell work.
func (p *Parser) ParseSheet(ctx context.Context, sheetName string, grid Grid) (*Report, error) {
	report := &Report{
		SheetName:       sheetName,
		Cells:           []ParsedCell{},
		UnmappedColumns: []UnmappedColumn{},
		Warnings:        []string{},
		DetectedAssets:  []string{},
		Parameters:      map[string][]string{},
		Units:           map[string]string{},
	}

	if len(grid) == 0 {
		report.Warnings = append(report.Warnings, "sheet is empty")
		return report, nil
	}

	width := len(grid[0])
	for i, row := range grid {
		if len(row) != width {
			return nil, fmt.Errorf("malformed grid: row %d has %d cells, expected %d", i, len(row), width)
		}
	}

	headerIdx, found := LocateHeaderRow(grid, p.headerScanRows)
	if found {
		report.HeaderRow = &headerIdx
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("detected header row at index %d", headerIdx))
		if headerIdx > 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("rows 0-%d appear to be title/metadata, skipped", headerIdx-1))
		}
	} else {
		headerIdx = 0
		report.Warnings = append(report.Warnings,
			"no row resembles a header; falling back to row 0")
	}

	headers := headerTexts(grid[headerIdx])
	matches := p.resolveColumns(ctx, headers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for col, m := range matches {
		if strings.HasPrefix(m.Note, "multiple assets") {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("column %d: %s", col, m.Note))
		}
		if !m.Mapped() {
			reason := m.Note
			if reason == "" {
				reason = "could not map header to a known parameter"
			}
			report.UnmappedColumns = append(report.UnmappedColumns, UnmappedColumn{
				Col:    col,
				Header: headers[col],
				Reason: reason,
			})
		}
	}

	report.Warnings = append(report.Warnings, duplicateWarnings(matches)...)

	cells, cellWarnings, err := p.parseDataRows(ctx, grid, headerIdx, matches)
	if err != nil {
		return nil, err
	}
	report.Cells = cells
	report.Warnings = append(report.Warnings, cellWarnings...)

	p.summarize(report, matches, grid, headerIdx)
	report.Warnings = dedupe(report.Warnings)
	return report, nil
}

// headerTexts extracts header strings, substituting a positional
// placeholder for blank header cells.
func headerTexts(row Row) []string {
	out := make([]string, len(row))
	for i, c := range row {
		text := strings.TrimSpace(c.Raw)
		if c.IsBlank() || text == "" {
			text = fmt.Sprintf("Column_%d", i)
		}
		out[i] = text
	}
	return out
}

// resolveColumns resolves every header concurrently. Results land in a
// slice indexed by column, keeping the outcome order-independent.
func (p *Parser) resolveColumns(ctx context.Context, headers []string) []HeaderMatch {
	matches := make([]HeaderMatch, len(headers))

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.workers)
	for col, header := range headers {
		wg.Add(1)
		sem <- struct{}{}
		go func(col int, header string) {
			defer wg.Done()
			defer func() { <-sem }()
			matches[col] = p.resolver.Resolve(ctx, header)
		}(col, header)
	}
	wg.Wait()

	return matches
}

// duplicateWarnings reports (parameter, asset) pairs claimed by more than
// one column. Duplication is reported, never suppressed.
func duplicateWarnings(matches []HeaderMatch) []string {
	byKey := make(map[string][]int)
	var order []string
	for col, m := range matches {
		if !m.Mapped() {
			continue
		}
		key := m.Param + "|" + m.Asset
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], col)
	}

	var warnings []string
	for _, key := range order {
		cols := byKey[key]
		if len(cols) < 2 {
			continue
		}
		m := matches[cols[0]]
		label := m.Param
		if m.Asset != "" {
			label += " (" + m.Asset + ")"
		}
		warnings = append(warnings,
			fmt.Sprintf("duplicate mapping: %s appears in columns %d and %d", label, cols[0], cols[1]))
	}
	return warnings
}

// chunkResult holds one batch's output, merged back in chunk order.
type chunkResult struct {
	cells    []ParsedCell
	warnings []string
}

// parseDataRows coerces every cell under the header row, chunking rows
// across workers. Chunk boundaries never split a cell's computation.
func (p *Parser) parseDataRows(ctx context.Context, grid Grid, headerIdx int, matches []HeaderMatch) ([]ParsedCell, []string, error) {
	start := headerIdx + 1
	if start >= len(grid) {
		return []ParsedCell{}, nil, nil
	}
	rows := grid[start:]

	numChunks := (len(rows) + p.chunkSize - 1) / p.chunkSize
	results := make([]chunkResult, numChunks)

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.workers)
	for chunk := 0; chunk < numChunks; chunk++ {
		lo := chunk * p.chunkSize
		hi := lo + p.chunkSize
		if hi > len(rows) {
			hi = len(rows)
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(chunk, lo, hi int) {
			defer wg.Done()
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			results[chunk] = p.parseChunk(rows[lo:hi], start+lo, matches)
		}(chunk, lo, hi)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	cells := []ParsedCell{}
	var warnings []string
	for _, res := range results {
		cells = append(cells, res.cells...)
		warnings = append(warnings, res.warnings...)
	}
	return cells, warnings, nil
}

// parseChunk handles one contiguous batch of data rows. rowOffset is the
// absolute grid index of the batch's first row.
func (p *Parser) parseChunk(rows []Row, rowOffset int, matches []HeaderMatch) chunkResult {
	var res chunkResult

	for i, row := range rows {
		rowIdx := rowOffset + i

		empty := true
		for _, c := range row {
			if !c.IsBlank() {
				empty = false
				break
			}
		}
		if empty {
			res.warnings = append(res.warnings, fmt.Sprintf("row %d is empty, skipped", rowIdx))
			continue
		}

		for col, cell := range row {
			m := matches[col]
			if !m.Mapped() {
				continue
			}

			vr := NormalizeValue(cell, p.reg.ParameterByName(m.Param))
			notes := append([]string{"parse method: " + vr.Method}, vr.Warnings...)

			res.cells = append(res.cells, ParsedCell{
				Row:        rowIdx,
				Col:        col,
				Param:      m.Param,
				Asset:      m.Asset,
				Raw:        cell.RawValue(),
				Parsed:     vr.Value,
				Confidence: minConfidence(m.Confidence, vr.Confidence),
				Notes:      notes,
			})

			for _, w := range vr.Warnings {
				res.warnings = append(res.warnings,
					fmt.Sprintf("row %d, col %d: %s", rowIdx, col, w))
			}
		}
	}
	return res
}

// summarize fills the convenience views: detected assets, parameter to
// asset mapping, units, and the sheet metadata block.
func (p *Parser) summarize(report *Report, matches []HeaderMatch, grid Grid, headerIdx int) {
	assetSet := make(map[string]struct{})
	paramAssets := make(map[string]map[string]struct{})
	mapped := 0

	for _, m := range matches {
		if !m.Mapped() {
			continue
		}
		mapped++
		if _, ok := paramAssets[m.Param]; !ok {
			paramAssets[m.Param] = make(map[string]struct{})
		}
		if m.Asset != "" {
			paramAssets[m.Param][m.Asset] = struct{}{}
			assetSet[m.Asset] = struct{}{}
		}
		report.Units[m.Param] = p.reg.Unit(m.Param)
	}

	for param, assets := range paramAssets {
		list := make([]string, 0, len(assets))
		for a := range assets {
			list = append(list, a)
		}
		sort.Strings(list)
		report.Parameters[param] = list
	}

	for a := range assetSet {
		report.DetectedAssets = append(report.DetectedAssets, a)
	}
	sort.Strings(report.DetectedAssets)

	report.Metadata = Metadata{
		TotalRows:       len(grid),
		DataRows:        len(grid) - headerIdx - 1,
		TotalColumns:    len(matches),
		MappedColumns:   mapped,
		UnmappedColumns: len(report.UnmappedColumns),
		MultiAsset:      len(report.DetectedAssets) > 1,
	}
}

// dedupe drops repeated warnings while preserving first-seen order.
func dedupe(warnings []string) []string {
	seen := make(map[string]struct{}, len(warnings))
	out := warnings[:0]
	for _, w := range warnings {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
