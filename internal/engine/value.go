package engine

// value.go coerces raw cell values into typed numbers.
//
// Coercion is an explicit ordered strategy list rather than guess-the-type:
// null tokens, native numerics, boolean tokens, percentages, separated
// numbers, percent-scale inference, embedded-number extraction, and
// finally failure. Each strategy either claims the value or passes.
// Validation bounds produce warnings only; a value is never withheld.

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cogenworks/plantparse/internal/registry"
)

// numericRegex validates a cleaned string as a plain number, including
// scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// embeddedNumberRegex pulls the first numeric run out of free text such as
// "1234 MT (approx)".
var embeddedNumberRegex = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// nullTokens are strings treated as an intentional absence of data.
var nullTokens = map[string]struct{}{
	"": {}, "n/a": {}, "na": {}, "-": {}, "null": {}, "nil": {},
}

// Coercion method tags recorded in ParsedCell notes.
const (
	methodNull         = "null_value"
	methodNative       = "numeric_native"
	methodBoolean      = "boolean_token"
	methodPercent      = "percentage"
	methodNumeric      = "numeric_string"
	methodPercentScale = "inferred_percent_scale"
	methodExtracted    = "extracted_number"
	methodUnparseable  = "unparseable"
)

// ValueResult is the outcome of coercing one cell.
type ValueResult struct {
	Value      *float64
	Confidence Confidence
	Method     string
	Warnings   []string
}

// NormalizeValue coerces a raw cell into a typed value for the given
// parameter (nil when the column's parameter is unknown) and validates it
// against the parameter's bounds.
func NormalizeValue(cell Cell, param *registry.ParameterDefinition) ValueResult {
	res := coerce(cell, param)
	if res.Value != nil && param != nil {
		res.Warnings = append(res.Warnings, validate(*res.Value, param)...)
	}
	return res
}

func coerce(cell Cell, param *registry.ParameterDefinition) ValueResult {
	// Null tokens: blank cells and recognized placeholders.
	if cell.IsBlank() {
		return ValueResult{Confidence: High, Method: methodNull}
	}
	lower := strings.ToLower(strings.TrimSpace(cell.Raw))
	if cell.Number == nil && cell.Bool == nil {
		if _, ok := nullTokens[lower]; ok {
			return ValueResult{Confidence: High, Method: methodNull}
		}
	}

	// Native primitives pass through; coercion is idempotent on them.
	if cell.Number != nil {
		return percentScaleAdjust(*cell.Number, methodNative, param)
	}
	if cell.Bool != nil {
		v := 0.0
		if *cell.Bool {
			v = 1.0
		}
		return ValueResult{Value: &v, Confidence: High, Method: methodBoolean}
	}

	// Boolean-like tokens map onto 1/0.
	switch lower {
	case "yes", "true", "y":
		v := 1.0
		return ValueResult{Value: &v, Confidence: High, Method: methodBoolean}
	case "no", "false", "n":
		v := 0.0
		return ValueResult{Value: &v, Confidence: High, Method: methodBoolean}
	}

	// Percentage-formatted strings.
	if strings.HasSuffix(lower, "%") {
		num := cleanNumber(strings.TrimSuffix(lower, "%"))
		if numericRegex.MatchString(num) {
			if v, err := strconv.ParseFloat(num, 64); err == nil {
				v /= 100
				return ValueResult{Value: &v, Confidence: High, Method: methodPercent}
			}
		}
	}

	// Plain numbers, possibly with thousands separators.
	if num := cleanNumber(lower); numericRegex.MatchString(num) {
		if v, err := strconv.ParseFloat(num, 64); err == nil {
			return percentScaleAdjust(v, methodNumeric, param)
		}
	}

	// Last resort: pull the first embedded number out of free text.
	if m := embeddedNumberRegex.FindString(lower); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return ValueResult{
				Value:      &v,
				Confidence: Medium,
				Method:     methodExtracted,
				Warnings:   []string{"numeric value extracted from text"},
			}
		}
	}

	return ValueResult{
		Confidence: Low,
		Method:     methodUnparseable,
		Warnings:   []string{"unparseable value"},
	}
}

// cleanNumber strips thousands separators and surrounding whitespace.
func cleanNumber(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}

// percentScaleAdjust rescales values reported on the 0-100 scale for
// parameters whose unit is "%" and whose bounds top out at 1, e.g. an
// efficiency entered as 85 instead of 0.85.
func percentScaleAdjust(v float64, method string, param *registry.ParameterDefinition) ValueResult {
	if param != nil && param.Unit == "%" && param.Bounds != nil &&
		param.Bounds.Max != nil && *param.Bounds.Max <= 1 && v > 1 && v <= 100 {
		scaled := v / 100
		return ValueResult{
			Value:      &scaled,
			Confidence: Medium,
			Method:     methodPercentScale,
			Warnings:   []string{"value appears percent-scaled; divided by 100"},
		}
	}
	return ValueResult{Value: &v, Confidence: High, Method: method}
}

// validate checks a parsed value against the parameter's bounds. It only
// ever reports; the value itself is always kept.
func validate(v float64, param *registry.ParameterDefinition) []string {
	b := param.Bounds
	if b == nil {
		return nil
	}

	var warnings []string
	if b.NonNegative && v < 0 {
		warnings = append(warnings, "unexpected negative value for "+param.Name)
	}
	if b.Min != nil && v < *b.Min {
		warnings = append(warnings, "value below expected range for "+param.Name)
	}
	if b.Max != nil && v > *b.Max {
		warnings = append(warnings, "value above expected range for "+param.Name)
	}
	return warnings
}
