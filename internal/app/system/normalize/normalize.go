// Package normalize canonicalizes user- and backend-supplied values before
// they are persisted or compared.
package normalize

import (
	"fmt"
	"strings"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// StringList converts a heterogeneously-shaped value into a canonical list
// of trimmed, non-empty strings, each truncated to maxEntry runes.
//
// Accepted shapes:
//   - string: split on commas and newlines
//   - []string
//   - []any whose entries are strings or objects carrying a "name" field
//
// It returns nil when the value is absent, not a recognized shape, or
// normalizes to nothing. Callers rely on nil meaning "omit the field";
// an empty non-nil slice is never returned. Normalizing an already
// canonical list is a no-op.
func StringList(v any, maxEntry int) []string {
	var raw []string

	switch val := v.(type) {
	case nil:
		return nil
	case string:
		raw = splitList(val)
	case []string:
		raw = val
	case []any:
		for _, entry := range val {
			raw = append(raw, entryString(entry))
		}
	default:
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if r := []rune(s); maxEntry > 0 && len(r) > maxEntry {
			// Truncation can expose trailing whitespace; trim again so
			// the output is canonical.
			s = strings.TrimSpace(string(r[:maxEntry]))
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// splitList breaks a free-text value on commas and newlines.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
}

// entryString extracts the usable string from a single list entry. Objects
// carrying a "name" field contribute that field's value; anything else is
// coerced to its string form.
func entryString(entry any) string {
	if m, ok := entry.(map[string]any); ok {
		if name, ok := m["name"]; ok {
			if s, ok := name.(string); ok {
				return s
			}
			return fmt.Sprint(name)
		}
	}
	if s, ok := entry.(string); ok {
		return s
	}
	return fmt.Sprint(entry)
}
