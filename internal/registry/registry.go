// Package registry holds the canonical parameter and asset definitions that
// messy sheet headers resolve against.
//
// The registry is loaded once at startup (built-in defaults or a JSON file)
// and is immutable afterwards, so it is safe to share across goroutines by
// reference.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Bounds describes optional validation limits for a parameter's values.
// Validation is advisory: out-of-bounds values produce warnings, never
// rejection.
type Bounds struct {
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	NonNegative bool     `json:"non_negative,omitempty"`
}

// ParameterDefinition is one canonical measurement a column can map to.
type ParameterDefinition struct {
	// Name is the stable canonical key, e.g. "coal_consumption".
	Name             string   `json:"name"`
	DisplayName      string   `json:"display_name"`
	Unit             string   `json:"unit"`
	Category         string   `json:"category"`
	Section          string   `json:"section"`
	Aliases          []string `json:"aliases"`
	ApplicableAssets []string `json:"applicable_assets,omitempty"`
	Bounds           *Bounds  `json:"bounds,omitempty"`
}

// AssetDefinition is one physical unit (boiler, turbine, ...) that headers
// may reference alongside a parameter.
type AssetDefinition struct {
	// Name is the stable canonical id, e.g. "AFBC-1".
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Type        string   `json:"type"`
	Aliases     []string `json:"aliases"`
}

// Registry is the read-only store of parameter and asset definitions.
type Registry struct {
	params []ParameterDefinition
	assets []AssetDefinition

	paramByName map[string]*ParameterDefinition
	assetByName map[string]*AssetDefinition
}

// New builds a Registry from the given definitions.
// Canonical names must be unique within each kind.
func New(params []ParameterDefinition, assets []AssetDefinition) (*Registry, error) {
	r := &Registry{
		params:      params,
		assets:      assets,
		paramByName: make(map[string]*ParameterDefinition, len(params)),
		assetByName: make(map[string]*AssetDefinition, len(assets)),
	}

	for i := range r.params {
		p := &r.params[i]
		if p.Name == "" {
			return nil, fmt.Errorf("parameter %d: empty canonical name", i)
		}
		if _, dup := r.paramByName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate parameter name %q", p.Name)
		}
		r.paramByName[p.Name] = p
	}

	for i := range r.assets {
		a := &r.assets[i]
		if a.Name == "" {
			return nil, fmt.Errorf("asset %d: empty canonical name", i)
		}
		if _, dup := r.assetByName[a.Name]; dup {
			return nil, fmt.Errorf("duplicate asset name %q", a.Name)
		}
		r.assetByName[a.Name] = a
	}

	return r, nil
}

// Default returns a registry with the built-in plant definitions.
func Default() *Registry {
	r, err := New(defaultParameters(), defaultAssets())
	if err != nil {
		// Built-in data; a failure here is a programming error.
		panic(fmt.Sprintf("built-in registry invalid: %v", err))
	}
	return r
}

// registryFile is the JSON shape accepted by LoadFile and produced by Export.
type registryFile struct {
	Parameters []ParameterDefinition `json:"parameters"`
	Assets     []AssetDefinition     `json:"assets"`
}

// LoadFile reads parameter and asset definitions from a JSON file,
// replacing the built-in defaults entirely.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}
	if len(file.Parameters) == 0 {
		return nil, fmt.Errorf("registry file %s defines no parameters", path)
	}

	return New(file.Parameters, file.Assets)
}

// ParameterByName returns the parameter with the given canonical name, or nil.
func (r *Registry) ParameterByName(name string) *ParameterDefinition {
	return r.paramByName[name]
}

// AssetByName returns the asset with the given canonical name, or nil.
func (r *Registry) AssetByName(name string) *AssetDefinition {
	return r.assetByName[name]
}

// Parameters returns all parameter definitions in registry order.
// The returned slice must not be modified.
func (r *Registry) Parameters() []ParameterDefinition {
	return r.params
}

// Assets returns all asset definitions in registry order.
// The returned slice must not be modified.
func (r *Registry) Assets() []AssetDefinition {
	return r.assets
}

// ParametersForAsset returns the parameters applicable to the given asset.
func (r *Registry) ParametersForAsset(assetName string) []ParameterDefinition {
	var out []ParameterDefinition
	for _, p := range r.params {
		for _, a := range p.ApplicableAssets {
			if a == assetName {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// AssetsByType returns all assets of the given type.
func (r *Registry) AssetsByType(assetType string) []AssetDefinition {
	var out []AssetDefinition
	for _, a := range r.assets {
		if a.Type == assetType {
			out = append(out, a)
		}
	}
	return out
}

// Sections returns the sorted set of distinct parameter sections.
func (r *Registry) Sections() []string {
	seen := make(map[string]struct{})
	for _, p := range r.params {
		seen[p.Section] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Unit returns the unit for a parameter, or "" when unknown.
func (r *Registry) Unit(paramName string) string {
	if p := r.paramByName[paramName]; p != nil {
		return p.Unit
	}
	return ""
}

// Export returns the registry contents in the JSON shape served by the API
// and accepted back by LoadFile.
func (r *Registry) Export() ([]byte, error) {
	return json.MarshalIndent(registryFile{
		Parameters: r.params,
		Assets:     r.assets,
	}, "", "  ")
}
