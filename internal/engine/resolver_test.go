package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cogenworks/plantparse/internal/registry"
)

func testResolver(t *testing.T, opts ...ResolverOption) *Resolver {
	t.Helper()
	return NewResolver(registry.Default(), opts...)
}

func TestResolve_Stages(t *testing.T) {
	r := testResolver(t)
	ctx := context.Background()

	tests := []struct {
		name           string
		header         string
		wantParam      string
		wantAsset      string
		wantConfidence Confidence
		wantReason     MatchReason
	}{
		{
			name:           "canonical name",
			header:         "coal_consumption",
			wantParam:      "coal_consumption",
			wantConfidence: High,
			wantReason:     ReasonExact,
		},
		{
			name:           "display name with case and spacing noise",
			header:         "  Coal   Consumption ",
			wantParam:      "coal_consumption",
			wantConfidence: High,
			wantReason:     ReasonExact,
		},
		{
			name:           "registered alias",
			header:         "COAL CONSMPTN",
			wantParam:      "coal_consumption",
			wantConfidence: High,
			wantReason:     ReasonAlias,
		},
		{
			name:           "alias with unit suffix",
			header:         "Coal Used (MT)",
			wantParam:      "coal_consumption",
			wantConfidence: High,
			wantReason:     ReasonAlias,
		},
		{
			name:           "parameter plus asset token",
			header:         "Coal Consumption AFBC-1",
			wantParam:      "coal_consumption",
			wantAsset:      "AFBC-1",
			wantConfidence: Medium,
			wantReason:     ReasonAssetStripped,
		},
		{
			name:           "asset token leads the header",
			header:         "Boiler 1 Coal Used",
			wantParam:      "coal_consumption",
			wantAsset:      "AFBC-1",
			wantConfidence: Medium,
			wantReason:     ReasonAssetStripped,
		},
		{
			name:           "turbine asset with power parameter",
			header:         "Power Generation TG-2",
			wantParam:      "power_generation",
			wantAsset:      "TG-2",
			wantConfidence: Medium,
			wantReason:     ReasonAssetStripped,
		},
		{
			name:           "near miss resolves fuzzily",
			header:         "Coal Consumptionn",
			wantParam:      "coal_consumption",
			wantConfidence: Medium,
			wantReason:     ReasonFuzzy,
		},
		{
			name:           "date column is screened out",
			header:         "Date",
			wantConfidence: Low,
			wantReason:     ReasonUnmapped,
		},
		{
			name:           "generic column placeholder",
			header:         "Column_7",
			wantConfidence: Low,
			wantReason:     ReasonUnmapped,
		},
		{
			name:           "empty header",
			header:         "   ",
			wantConfidence: Low,
			wantReason:     ReasonUnmapped,
		},
		{
			name:           "gibberish stays unmapped",
			header:         "qzx wvk jjj",
			wantConfidence: Low,
			wantReason:     ReasonUnmapped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(ctx, tt.header)
			if got.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", got.Param, tt.wantParam)
			}
			if got.Asset != tt.wantAsset {
				t.Errorf("Asset = %q, want %q", got.Asset, tt.wantAsset)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %v, want %v", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestResolve_AllRegisteredAliases(t *testing.T) {
	// Every registered alias must resolve to its own parameter at high or
	// medium confidence, never unmapped.
	reg := registry.Default()
	r := NewResolver(reg)
	ctx := context.Background()

	for _, p := range reg.Parameters() {
		for _, alias := range p.Aliases {
			got := r.Resolve(ctx, strings.ToUpper(alias))
			if got.Param != p.Name {
				t.Errorf("alias %q resolved to %q, want %q", alias, got.Param, p.Name)
			}
			if got.Confidence < Medium {
				t.Errorf("alias %q confidence = %v, want >= medium", alias, got.Confidence)
			}
		}
	}
}

func TestResolve_MultipleAssetsInHeader(t *testing.T) {
	r := testResolver(t)

	got := r.Resolve(context.Background(), "Coal Consumption AFBC-1 AFBC-2")
	if got.Param != "coal_consumption" {
		t.Fatalf("Param = %q, want coal_consumption", got.Param)
	}
	if got.Asset != "AFBC-1" {
		t.Errorf("Asset = %q, want leftmost AFBC-1", got.Asset)
	}
	if !strings.HasPrefix(got.Note, "multiple assets") {
		t.Errorf("Note = %q, want multiple-assets notice", got.Note)
	}
}

// countingSuggester records calls and serves a fixed response.
type countingSuggester struct {
	calls      int
	suggestion *Suggestion
	err        error
}

func (s *countingSuggester) Suggest(ctx context.Context, header string) (*Suggestion, error) {
	s.calls++
	return s.suggestion, s.err
}

func TestResolve_ExternalSuggestion(t *testing.T) {
	t.Run("adopted for unmapped header, capped at medium", func(t *testing.T) {
		sug := &countingSuggester{suggestion: &Suggestion{
			Param:      "coal_consumption",
			Asset:      "AFBC-1",
			Confidence: "high",
			Reason:     "semantic match",
		}}
		r := testResolver(t, WithSuggester(sug, 0))

		got := r.Resolve(context.Background(), "black rock feed qty")
		if got.Param != "coal_consumption" || got.Asset != "AFBC-1" {
			t.Errorf("got (%q, %q), want (coal_consumption, AFBC-1)", got.Param, got.Asset)
		}
		if got.Confidence != Medium {
			t.Errorf("Confidence = %v, want medium (capped)", got.Confidence)
		}
		if got.Reason != ReasonExternal {
			t.Errorf("Reason = %v, want external", got.Reason)
		}
	})

	t.Run("not consulted when internal match is medium or better", func(t *testing.T) {
		sug := &countingSuggester{suggestion: &Suggestion{Param: "power_generation"}}
		r := testResolver(t, WithSuggester(sug, 0))

		got := r.Resolve(context.Background(), "Coal Consumption")
		if got.Param != "coal_consumption" || got.Reason != ReasonExact {
			t.Fatalf("internal match overridden: %+v", got)
		}
		if sug.calls != 0 {
			t.Errorf("suggester consulted %d times, want 0", sug.calls)
		}
	})

	t.Run("failure falls back to internal result", func(t *testing.T) {
		sug := &countingSuggester{err: errors.New("service down")}
		r := testResolver(t, WithSuggester(sug, 0))

		got := r.Resolve(context.Background(), "qzx wvk jjj")
		if got.Reason != ReasonUnmapped || got.Confidence != Low {
			t.Errorf("got %+v, want unmapped/low", got)
		}
	})

	t.Run("unknown parameter id is rejected", func(t *testing.T) {
		sug := &countingSuggester{suggestion: &Suggestion{Param: "unobtainium_flux"}}
		r := testResolver(t, WithSuggester(sug, 0))

		got := r.Resolve(context.Background(), "qzx wvk jjj")
		if got.Param != "" {
			t.Errorf("adopted unknown parameter %q", got.Param)
		}
	})
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Coal   Consumption ", "coal consumption"},
		{"Coal Used (MT)", "coal used"},
		{"coal_consumption", "coal consumption"},
		{"AFBC-1", "afbc 1"},
		{"EFF %", "eff"},
		{"Steam (Boiler)", "steam"},
	}

	for _, tt := range tests {
		if got := normalizeKey(tt.input); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"coal consumption", "coal consumption", 1.0},
		{"coal cons", "coal consumption", 0.9},
		{"", "coal", 0.0},
	}

	for _, tt := range tests {
		if got := similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarity_TypoPrefersIntendedParameter(t *testing.T) {
	// A one-character typo must stay closest to the intended key. An
	// unrelated key sharing most of the same characters in different
	// positions may not outscore it or clear the medium threshold.
	typo := "coal consumptionn"
	right := similarity(typo, "coal consumption")
	wrong := similarity(typo, "steam consumption")

	if right <= wrong {
		t.Fatalf("similarity(%q, coal consumption) = %v, not above steam consumption's %v", typo, right, wrong)
	}
	if right <= fuzzyMediumThreshold {
		t.Errorf("intended match score = %v, want > %v", right, fuzzyMediumThreshold)
	}
	if wrong > fuzzyMediumThreshold {
		t.Errorf("unrelated match score = %v, want <= %v", wrong, fuzzyMediumThreshold)
	}

	got := testResolver(t).Resolve(context.Background(), "Coal Consumptionn")
	if got.Param != "coal_consumption" || got.Reason != ReasonFuzzy {
		t.Errorf("Resolve(Coal Consumptionn) = (%q, %v), want (coal_consumption, fuzzy)", got.Param, got.Reason)
	}
}
