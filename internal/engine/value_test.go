package engine

import (
	"testing"

	"github.com/cogenworks/plantparse/internal/registry"
)

func TestNormalizeValue_Coercion(t *testing.T) {
	tests := []struct {
		name           string
		cell           Cell
		wantValue      *float64
		wantConfidence Confidence
		wantMethod     string
		wantWarnings   int
	}{
		{
			name:           "plain number",
			cell:           StringCell("450"),
			wantValue:      fptr(450),
			wantConfidence: High,
			wantMethod:     methodNumeric,
		},
		{
			name:           "thousands separators",
			cell:           StringCell("1,234.56"),
			wantValue:      fptr(1234.56),
			wantConfidence: High,
			wantMethod:     methodNumeric,
		},
		{
			name:           "percentage",
			cell:           StringCell("45%"),
			wantValue:      fptr(0.45),
			wantConfidence: High,
			wantMethod:     methodPercent,
		},
		{
			name:           "affirmative token",
			cell:           StringCell("YES"),
			wantValue:      fptr(1),
			wantConfidence: High,
			wantMethod:     methodBoolean,
		},
		{
			name:           "negative token",
			cell:           StringCell("no"),
			wantValue:      fptr(0),
			wantConfidence: High,
			wantMethod:     methodBoolean,
		},
		{
			name:           "null token",
			cell:           StringCell("N/A"),
			wantConfidence: High,
			wantMethod:     methodNull,
		},
		{
			name:           "dash null token",
			cell:           StringCell("-"),
			wantConfidence: High,
			wantMethod:     methodNull,
		},
		{
			name:           "blank cell",
			cell:           Cell{Blank: true},
			wantConfidence: High,
			wantMethod:     methodNull,
		},
		{
			name:           "native number passes through",
			cell:           NumberCell(1234.56),
			wantValue:      fptr(1234.56),
			wantConfidence: High,
			wantMethod:     methodNative,
		},
		{
			name:           "native bool",
			cell:           BoolCell(true),
			wantValue:      fptr(1),
			wantConfidence: High,
			wantMethod:     methodBoolean,
		},
		{
			name:           "number embedded in text",
			cell:           StringCell("1234 MT"),
			wantValue:      fptr(1234),
			wantConfidence: Medium,
			wantMethod:     methodExtracted,
			wantWarnings:   1,
		},
		{
			name:           "unparseable text",
			cell:           StringCell("pending"),
			wantConfidence: Low,
			wantMethod:     methodUnparseable,
			wantWarnings:   1,
		},
		{
			name:           "negative number",
			cell:           StringCell("-12.5"),
			wantValue:      fptr(-12.5),
			wantConfidence: High,
			wantMethod:     methodNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeValue(tt.cell, nil)

			if (got.Value == nil) != (tt.wantValue == nil) {
				t.Fatalf("Value = %v, want %v", got.Value, tt.wantValue)
			}
			if got.Value != nil && *got.Value != *tt.wantValue {
				t.Errorf("Value = %v, want %v", *got.Value, *tt.wantValue)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", got.Method, tt.wantMethod)
			}
			if len(got.Warnings) != tt.wantWarnings {
				t.Errorf("Warnings = %v, want %d", got.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestNormalizeValue_Idempotent(t *testing.T) {
	first := NormalizeValue(StringCell("1,234.56"), nil)
	if first.Value == nil {
		t.Fatal("first coercion returned nil")
	}

	second := NormalizeValue(NumberCell(*first.Value), nil)
	if second.Value == nil || *second.Value != *first.Value {
		t.Errorf("re-coercion changed value: %v -> %v", *first.Value, second.Value)
	}
}

func TestNormalizeValue_PercentScaleInference(t *testing.T) {
	reg := registry.Default()
	eff := reg.ParameterByName("efficiency")

	got := NormalizeValue(NumberCell(85), eff)
	if got.Value == nil || *got.Value != 0.85 {
		t.Fatalf("Value = %v, want 0.85", got.Value)
	}
	if got.Confidence != Medium {
		t.Errorf("Confidence = %v, want medium", got.Confidence)
	}
	if got.Method != methodPercentScale {
		t.Errorf("Method = %q, want %q", got.Method, methodPercentScale)
	}

	// Values already on the 0-1 scale are untouched.
	got = NormalizeValue(StringCell("0.85"), eff)
	if got.Value == nil || *got.Value != 0.85 || got.Confidence != High {
		t.Errorf("in-scale value altered: %+v", got)
	}
}

func TestNormalizeValue_Validation(t *testing.T) {
	reg := registry.Default()

	t.Run("negative consumption warns but keeps the value", func(t *testing.T) {
		coal := reg.ParameterByName("coal_consumption")
		got := NormalizeValue(StringCell("-5"), coal)
		if got.Value == nil || *got.Value != -5 {
			t.Fatalf("Value = %v, want -5 unchanged", got.Value)
		}
		if len(got.Warnings) != 1 {
			t.Errorf("Warnings = %v, want exactly one", got.Warnings)
		}
	})

	t.Run("operating hours above range warns", func(t *testing.T) {
		hours := reg.ParameterByName("operating_hours")
		got := NormalizeValue(StringCell("30"), hours)
		if got.Value == nil || *got.Value != 30 {
			t.Fatalf("Value = %v, want 30 unchanged", got.Value)
		}
		if len(got.Warnings) != 1 {
			t.Errorf("Warnings = %v, want exactly one", got.Warnings)
		}
	})

	t.Run("in-range value has no warnings", func(t *testing.T) {
		hours := reg.ParameterByName("operating_hours")
		got := NormalizeValue(StringCell("16"), hours)
		if len(got.Warnings) != 0 {
			t.Errorf("Warnings = %v, want none", got.Warnings)
		}
	})
}

func fptr(v float64) *float64 { return &v }
