package registry

import (
	"fmt"
	"strings"
)

// PromptContext renders the registry as plain text for inclusion in the
// semantic-suggestion prompt, so the model maps headers only onto known
// canonical ids.
func (r *Registry) PromptContext() string {
	var b strings.Builder

	b.WriteString("# Parameter Registry\n")
	for _, p := range r.params {
		fmt.Fprintf(&b, "\n- %s: %s (%s)\n", p.Name, p.DisplayName, p.Unit)
		fmt.Fprintf(&b, "  Category: %s\n", p.Category)
		fmt.Fprintf(&b, "  Section: %s\n", p.Section)
		fmt.Fprintf(&b, "  Aliases: %s\n", strings.Join(p.Aliases, ", "))
		if len(p.ApplicableAssets) > 0 {
			fmt.Fprintf(&b, "  Applicable Assets: %s\n", strings.Join(p.ApplicableAssets, ", "))
		}
	}

	b.WriteString("\n# Asset Registry\n")
	for _, a := range r.assets {
		fmt.Fprintf(&b, "\n- %s: %s (%s)\n", a.Name, a.DisplayName, a.Type)
		fmt.Fprintf(&b, "  Aliases: %s\n", strings.Join(a.Aliases, ", "))
	}

	return b.String()
}
