package engine

// resolver.go maps one noisy header cell to a canonical (parameter, asset)
// pair with a confidence level. Stages run in fixed order and short-circuit
// on success: screen, exact/alias, asset extraction, fuzzy, external
// suggestion, unmapped. Resolution is a pure function of the header text
// and the registry; the optional suggestion stage is strictly additive.

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cogenworks/plantparse/internal/registry"
)

// Fuzzy-match thresholds on the [0,1] similarity scale.
const (
	fuzzyMediumThreshold = 0.85
	fuzzyLowThreshold    = 0.60
)

// DefaultSuggestTimeout bounds a single external suggestion call.
const DefaultSuggestTimeout = 10 * time.Second

// nonParameterTerms are header tokens that mark a column as something other
// than a measurement (timestamps, ids, free-text notes).
var nonParameterTerms = map[string]struct{}{
	"date": {}, "time": {}, "timestamp": {}, "day": {}, "month": {},
	"year": {}, "id": {}, "comment": {}, "comments": {}, "notes": {},
	"remarks": {}, "description": {},
}

var (
	parenRegex = regexp.MustCompile(`\([^)]*\)`)
	punctRegex = regexp.MustCompile(`[-_/\\.,:;%]+`)
	spaceRegex = regexp.MustCompile(`\s+`)
)

// normalizeKey lowercases a header, strips parenthesized unit suffixes,
// folds punctuation to spaces, and collapses whitespace.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = parenRegex.ReplaceAllString(s, " ")
	s = punctRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

func squash(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// exactEntry records which parameter a normalized key identifies and how.
type exactEntry struct {
	param  string
	reason MatchReason
}

// assetPattern is one matchable form of an asset alias.
type assetPattern struct {
	asset   string
	pattern string
}

// Resolver maps header text to canonical ids against a fixed registry.
// It is safe for concurrent use.
type Resolver struct {
	reg            *registry.Registry
	suggester      Suggester
	suggestTimeout time.Duration

	exact     map[string]exactEntry
	fuzzyKeys []exactEntry // entry per candidate string, parallel to fuzzyVals
	fuzzyVals []string
	assetPats []assetPattern
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSuggester attaches an external suggestion collaborator.
func WithSuggester(s Suggester, timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.suggester = s
		if timeout > 0 {
			r.suggestTimeout = timeout
		}
	}
}

// NewResolver builds a Resolver, precomputing normalized lookup keys for
// every canonical name, display name, alias, and asset pattern.
func NewResolver(reg *registry.Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		reg:            reg,
		suggestTimeout: DefaultSuggestTimeout,
		exact:          make(map[string]exactEntry),
	}

	for _, p := range reg.Parameters() {
		r.addExact(normalizeKey(p.Name), p.Name, ReasonExact)
		r.addExact(normalizeKey(p.DisplayName), p.Name, ReasonExact)
		for _, alias := range p.Aliases {
			r.addExact(normalizeKey(alias), p.Name, ReasonAlias)
		}
	}

	for _, a := range reg.Assets() {
		seen := make(map[string]struct{})
		for _, alias := range a.Aliases {
			norm := normalizeKey(alias)
			for _, pat := range []string{norm, squash(norm)} {
				if pat == "" {
					continue
				}
				if _, dup := seen[pat]; dup {
					continue
				}
				seen[pat] = struct{}{}
				r.assetPats = append(r.assetPats, assetPattern{asset: a.Name, pattern: pat})
			}
		}
	}
	// Longer patterns first so "turbine 1" wins over "tg 1" at the same offset.
	sort.SliceStable(r.assetPats, func(i, j int) bool {
		return len(r.assetPats[i].pattern) > len(r.assetPats[j].pattern)
	})

	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Resolver) addExact(key, param string, reason MatchReason) {
	if key == "" {
		return
	}
	if _, exists := r.exact[key]; !exists {
		r.exact[key] = exactEntry{param: param, reason: reason}
	}
	r.fuzzyKeys = append(r.fuzzyKeys, exactEntry{param: param, reason: reason})
	r.fuzzyVals = append(r.fuzzyVals, key)
}

// Resolve maps one header cell's text to a HeaderMatch.
func (r *Resolver) Resolve(ctx context.Context, header string) HeaderMatch {
	match := r.resolveInternal(header)

	if match.Confidence < Medium || !match.Mapped() {
		if ext, ok := r.trySuggestion(ctx, header); ok {
			return ext
		}
	}
	return match
}

// resolveInternal runs the deterministic stages only.
func (r *Resolver) resolveInternal(header string) HeaderMatch {
	unmapped := func(note string) HeaderMatch {
		return HeaderMatch{Header: header, Confidence: Low, Reason: ReasonUnmapped, Note: note}
	}

	if strings.TrimSpace(header) == "" {
		return unmapped("empty header")
	}

	key := normalizeKey(header)
	if key == "" {
		return unmapped("empty header")
	}
	if strings.HasPrefix(key, "column ") || strings.HasPrefix(key, "unnamed") {
		return unmapped("generic column header")
	}
	for _, tok := range strings.Fields(key) {
		if _, hit := nonParameterTerms[tok]; hit {
			return unmapped(fmt.Sprintf("non-parameter column: %q", tok))
		}
	}

	// Exact canonical/display/alias match.
	if e, ok := r.exact[key]; ok {
		return HeaderMatch{Header: header, Param: e.param, Confidence: High, Reason: e.reason}
	}

	// Asset extraction: find asset tokens, strip the leftmost, and retry
	// the exact stages on the remainder.
	asset, remainder, assetNote := r.extractAsset(key)
	if asset != "" {
		if e, ok := r.exact[remainder]; ok {
			return HeaderMatch{
				Header:     header,
				Param:      e.param,
				Asset:      asset,
				Confidence: Medium,
				Reason:     ReasonAssetStripped,
				Note:       assetNote,
			}
		}
		key = remainder
	}

	// Fuzzy match against every registered name and alias.
	if best, score := r.bestFuzzy(key); best != "" {
		note := fmt.Sprintf("fuzzy match score %.2f", score)
		if assetNote != "" {
			note = assetNote + "; " + note
		}
		m := HeaderMatch{Header: header, Param: best, Asset: asset, Reason: ReasonFuzzy, Note: note}
		switch {
		case score > fuzzyMediumThreshold:
			m.Confidence = Medium
			return m
		case score > fuzzyLowThreshold:
			m.Confidence = Low
			return m
		}
	}

	return unmapped("no registry entry resembles this header")
}

// extractAsset scans a normalized key for asset alias tokens. It returns
// the leftmost asset's canonical id, the key with that token removed, and
// a note when more than one distinct asset occurs in the same header.
func (r *Resolver) extractAsset(key string) (asset, remainder, note string) {
	squashed := squash(key)

	type hit struct {
		asset  string
		pos    int
		length int
		inKey  bool // matched in key rather than the squashed form
	}
	var hits []hit
	for _, p := range r.assetPats {
		if idx := strings.Index(key, p.pattern); idx >= 0 {
			hits = append(hits, hit{asset: p.asset, pos: idx, length: len(p.pattern), inKey: true})
		} else if idx := strings.Index(squashed, p.pattern); idx >= 0 {
			hits = append(hits, hit{asset: p.asset, pos: idx, length: len(p.pattern)})
		}
	}
	if len(hits) == 0 {
		return "", key, ""
	}

	// Offsets in the key and in its squashed form are not comparable, so
	// direct key matches always outrank squashed-form matches.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].inKey != hits[j].inKey {
			return hits[i].inKey
		}
		return hits[i].pos < hits[j].pos
	})

	first := hits[0]
	distinct := []string{first.asset}
	for _, h := range hits[1:] {
		known := false
		for _, d := range distinct {
			if d == h.asset {
				known = true
				break
			}
		}
		if !known {
			distinct = append(distinct, h.asset)
		}
	}
	if len(distinct) > 1 {
		note = fmt.Sprintf("multiple assets in header (%s); using %s",
			strings.Join(distinct, ", "), first.asset)
	}

	if first.inKey {
		remainder = key[:first.pos] + " " + key[first.pos+first.length:]
	} else {
		remainder = squashed[:first.pos] + " " + squashed[first.pos+first.length:]
	}
	remainder = strings.TrimSpace(spaceRegex.ReplaceAllString(remainder, " "))
	return first.asset, remainder, note
}

// bestFuzzy returns the parameter whose registered names best resemble the
// key, with the similarity score. An empty parameter means nothing scored
// above zero.
func (r *Resolver) bestFuzzy(key string) (string, float64) {
	bestParam, bestScore := "", 0.0
	for i, candidate := range r.fuzzyVals {
		if s := similarity(key, candidate); s > bestScore {
			bestScore = s
			bestParam = r.fuzzyKeys[i].param
		}
	}
	return bestParam, bestScore
}

// similarity scores two normalized strings on [0,1]: identical strings
// score 1.0, otherwise one minus the normalized edit distance, raised to
// a 0.9 floor when one string contains the other. Position matters, so a
// string sharing most of its characters with an unrelated candidate still
// scores low.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	score := 1.0 - float64(editDistance(ra, rb))/float64(longest)

	if score < 0.9 && (strings.Contains(a, b) || strings.Contains(b, a)) {
		score = 0.9
	}
	return score
}

// editDistance computes the Levenshtein distance between two rune slices
// with a two-row table.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// trySuggestion queries the external collaborator with a bounded timeout.
// Suggestions are adopted only when they reference known registry ids, and
// are capped at Medium confidence.
func (r *Resolver) trySuggestion(ctx context.Context, header string) (HeaderMatch, bool) {
	if r.suggester == nil {
		return HeaderMatch{}, false
	}

	callCtx, cancel := context.WithTimeout(ctx, r.suggestTimeout)
	defer cancel()

	sug, err := r.suggester.Suggest(callCtx, header)
	if err != nil {
		slog.Debug("suggestion service unavailable", "header", header, "error", err)
		return HeaderMatch{}, false
	}
	if sug == nil || sug.Param == "" {
		return HeaderMatch{}, false
	}
	if r.reg.ParameterByName(sug.Param) == nil {
		slog.Debug("suggestion references unknown parameter", "header", header, "param", sug.Param)
		return HeaderMatch{}, false
	}

	asset := sug.Asset
	if asset != "" && r.reg.AssetByName(asset) == nil {
		asset = ""
	}

	conf := Medium
	if parsed, ok := ParseConfidence(sug.Confidence); ok {
		conf = minConfidence(parsed, Medium)
	}

	return HeaderMatch{
		Header:     header,
		Param:      sug.Param,
		Asset:      asset,
		Confidence: conf,
		Reason:     ReasonExternal,
		Note:       sug.Reason,
	}, true
}
