package engine

import "strings"

// normalizeFieldName maps a field's display name onto the identifier an
// accessor derives: "Date Reported" and GetDateReported both normalize
// to "datereported". Raw value maps are re-keyed the same way before
// descriptor matching.
func normalizeFieldName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// normalizeValues re-keys an extracted value map for descriptor
// matching. Collisions are resolved last-writer-wins; the platform's
// naming rules make collisions a metadata bug, not something the engine
// can repair.
func normalizeValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for name, v := range values {
		out[normalizeFieldName(name)] = v
	}
	return out
}
