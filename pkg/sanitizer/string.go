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

// NormalizePurpose keeps the visitor-facing casing; it only collapses
// whitespace so purposes render cleanly on badges and calendars.
func NormalizePurpose(purpose string) string {
	return TrimAndNormalize(purpose)
}

func NormalizeReason(reason string) string {
	return TrimAndNormalize(reason)
}

func NormalizeLabel(label string) string {
	return strings.ToLower(TrimAndNormalize(label))
}
