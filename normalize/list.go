package normalize

import "strings"

var listSeparators = func(r rune) bool {
	return r == ',' || r == ';' || r == '\n' || r == '\r'
}

// ParseList splits free-form list text on commas, semicolons and newlines,
// trimming tokens and dropping empties.
func ParseList(raw string) []string {
	out := make([]string, 0)
	for _, token := range strings.FieldsFunc(raw, listSeparators) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}

// UniqueList deduplicates case-insensitively, preserving first-seen order
// and casing. Tokens are trimmed before comparison.
func UniqueList(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
