package utils

import "strings"

// NormalizeTicker normalizes a user-supplied ticker symbol: trims whitespace,
// uppercases, and converts share-class dots to the SEC/Yahoo dash form
// (BRK.B → BRK-B).
func NormalizeTicker(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	t = strings.ReplaceAll(t, ".", "-")
	return t
}

// SplitTickers parses a comma- or space-separated ticker list into
// normalized symbols, dropping empties and duplicates (first wins).
func SplitTickers(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	seen := make(map[string]bool, len(fields))
	var out []string
	for _, f := range fields {
		t := NormalizeTicker(f)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
