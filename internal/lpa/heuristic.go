package lpa

import (
	"regexp"
	"strings"
)

// codeRun: ten or more consecutive code characters, a likely activation code.
var codeRun = regexp.MustCompile(`[A-Za-z0-9-]{10,}`)

// LooksLikeESIM reports whether text plausibly contains eSIM activation data.
// Deliberately permissive: a false positive costs the user one extra prompt,
// a false negative silently drops usable data.
func LooksLikeESIM(text string) bool {
	if strings.ContainsAny(text, "$.") {
		return true
	}
	if codeRun.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, "lpa") || strings.Contains(lower, "esim")
}
