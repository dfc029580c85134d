package utils

import "strings"

// SplitArgs splits a command line into fields, honoring double quotes so that
// `/mute "@User Name" "10m"` yields three arguments. The bot-mention suffix
// of the command itself (/mute@SomeBot) is stripped.
func SplitArgs(text string) []string {
	var (
		parts   []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	flush := func() {
		if started {
			parts = append(parts, cur.String())
			cur.Reset()
			started = false
		}
	}
	for _, r := range text {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()

	if len(parts) > 0 {
		parts[0], _, _ = strings.Cut(parts[0], "@")
	}
	return parts
}
