package utils

import (
	"regexp"
	"strings"
)

var linkRegex = regexp.MustCompile(`(?i)(https?://|t\.me/|www\.)\S+`)

var linkMarkers = []string{"http://", "https://", "t.me/", "www."}

// NormalizeText trims, lowercases and collapses internal whitespace so that
// trivially mutated repeats compare equal.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

func ContainsLink(text string) bool {
	t := strings.ToLower(text)
	for _, m := range linkMarkers {
		if strings.Contains(t, m) {
			return true
		}
	}
	return linkRegex.MatchString(t)
}

func NormalizeUsername(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimPrefix(u, "@")
	return strings.ToLower(u)
}

func TruncateText(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
