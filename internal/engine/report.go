package engine

// report.go defines the assembled output handed to the transport layer.
// A Report is built once per sheet and never mutated afterwards; the
// engine holds no state across invocations.

// HeaderMatch is the resolution result for one header cell.
type HeaderMatch struct {
	Header     string      `json:"header"`
	Param      string      `json:"param_name,omitempty"`
	Asset      string      `json:"asset_name,omitempty"`
	Confidence Confidence  `json:"confidence"`
	Reason     MatchReason `json:"reason"`

	// Note carries human-readable detail about the match decision,
	// e.g. the fuzzy score or an ambiguous-asset notice.
	Note string `json:"note,omitempty"`
}

// Mapped reports whether the header resolved to a canonical parameter.
func (m HeaderMatch) Mapped() bool { return m.Param != "" }

// ParsedCell is one typed, confidence-scored measurement.
type ParsedCell struct {
	Row        int        `json:"row"`
	Col        int        `json:"col"`
	Param      string     `json:"param_name"`
	Asset      string     `json:"asset_name,omitempty"`
	Raw        any        `json:"raw_value"`
	Parsed     *float64   `json:"parsed_value"`
	Confidence Confidence `json:"confidence"`
	Notes      []string   `json:"notes,omitempty"`
}

// UnmappedColumn describes a column whose header could not be resolved.
type UnmappedColumn struct {
	Col    int    `json:"col"`
	Header string `json:"header"`
	Reason string `json:"reason"`
}

// Metadata summarizes a sheet parse for quick inspection.
type Metadata struct {
	TotalRows       int  `json:"total_rows"`
	DataRows        int  `json:"data_rows"`
	TotalColumns    int  `json:"total_columns"`
	MappedColumns   int  `json:"mapped_columns"`
	UnmappedColumns int  `json:"unmapped_columns"`
	MultiAsset      bool `json:"multi_asset_detected"`
}

// Report is the full result for one sheet.
type Report struct {
	SheetName string `json:"sheet_name"`

	// HeaderRow is the zero-based index of the detected header row.
	// It is nil when no row qualified and row 0 was used as a fallback.
	HeaderRow *int `json:"header_row"`

	Cells           []ParsedCell        `json:"parsed_data"`
	UnmappedColumns []UnmappedColumn    `json:"unmapped_columns"`
	Warnings        []string            `json:"warnings"`
	DetectedAssets  []string            `json:"detected_assets"`
	Parameters      map[string][]string `json:"parameters"`
	Units           map[string]string   `json:"units"`
	Metadata        Metadata            `json:"metadata"`
}
