package engine

import "context"

// Suggestion is an external candidate mapping for a header.
type Suggestion struct {
	Param      string `json:"param_name"`
	Asset      string `json:"asset_name"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// Suggester supplies best-effort mapping candidates from an external
// semantic service. Implementations must respect the context deadline.
//
// A nil Suggester, an error, or a nil Suggestion all mean "no suggestion";
// the resolver's output for every other column is unaffected either way.
type Suggester interface {
	Suggest(ctx context.Context, header string) (*Suggestion, error)
}
