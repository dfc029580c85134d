package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var durationPattern = regexp.MustCompile(`(\d+)\s*([smhd])`)

// ParseDurationSeconds understands "600", "10m", "2h30m", "1d" and the
// Russian unit aliases (с/мин/ч/д). Returns 0, false on anything else.
func ParseDurationSeconds(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	r := strings.NewReplacer(
		"сек", "s", "с", "s",
		"мин", "m", "м", "m",
		"час", "h", "ч", "h",
		"дн", "d", "д", "d",
	)
	s = r.Replace(s)

	total := 0
	found := false
	for _, m := range durationPattern.FindAllStringSubmatch(s, -1) {
		found = true
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "s":
			total += n
		case "m":
			total += n * 60
		case "h":
			total += n * 3600
		case "d":
			total += n * 86400
		}
	}
	if !found {
		return 0, false
	}
	return total, true
}

func FormatDuration(sec int) string {
	if sec <= 0 {
		return "—"
	}
	d := sec / 86400
	h := sec % 86400 / 3600
	m := sec % 3600 / 60
	s := sec % 60

	var parts []string
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dд", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dч", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dм", m))
	}
	if s > 0 && len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dс", s))
	}
	if len(parts) == 0 {
		return "0с"
	}
	return strings.Join(parts, " ")
}
