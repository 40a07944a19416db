package sanitizer

import "strings"

func NormalizeStringSlice(items []string, normalizer Strategy) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

// NormalizeExtras dedupes and lowercases add-on service identifiers,
// e.g. "Inside Fridge" and "inside fridge" are the same extra.
func NormalizeExtras(extras []string) []string {
	return NormalizeStringSlice(extras, func(s string) string {
		return strings.ToLower(TrimAndNormalize(s))
	})
}
