package engine

import "fmt"

// Confidence is the discrete quality level attached to a header mapping or
// a parsed value. The levels form a total order: High > Medium > Low, so
// min-aggregation is exact and every pair is comparable.
type Confidence int

const (
	Low Confidence = iota
	Medium
	High
)

// String returns the wire form used in reports ("low", "medium", "high").
func (c Confidence) String() string {
	switch c {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON encodes the confidence as its wire string.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes "high"/"medium"/"low".
func (c *Confidence) UnmarshalJSON(data []byte) error {
	parsed, ok := ParseConfidence(string(data))
	if !ok {
		return fmt.Errorf("invalid confidence %s", data)
	}
	*c = parsed
	return nil
}

// ParseConfidence maps a string (optionally JSON-quoted) to a Confidence.
func ParseConfidence(s string) (Confidence, bool) {
	switch trimQuotes(s) {
	case "high":
		return High, true
	case "medium":
		return Medium, true
	case "low":
		return Low, true
	}
	return Low, false
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// minConfidence returns the weaker of two confidence levels.
func minConfidence(a, b Confidence) Confidence {
	if a < b {
		return a
	}
	return b
}

// MatchReason tags how a header was resolved (or why it was not).
type MatchReason string

const (
	ReasonExact         MatchReason = "exact"
	ReasonAlias         MatchReason = "alias"
	ReasonAssetStripped MatchReason = "asset_stripped"
	ReasonFuzzy         MatchReason = "fuzzy"
	ReasonExternal      MatchReason = "external"
	ReasonUnmapped      MatchReason = "unmapped"
)
