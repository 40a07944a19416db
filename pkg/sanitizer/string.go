package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeAddress(address string) string {
	return TrimAndNormalize(address)
}

// NormalizeEmail lowercases so the same customer always resolves to
// the same booking history.
func NormalizeEmail(email string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
	}
	return p.Apply(email)
}

// NormalizeDiscountCode uppercases so codes match regardless of how
// the customer typed them.
func NormalizeDiscountCode(code string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToUpper,
		func(s string) string { return strings.ReplaceAll(s, " ", "") },
	}
	return p.Apply(code)
}
