package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts a video duration to whole seconds. It accepts the
// provider token ("PT1H2M3S", any component optional) and the clock form
// produced by FormatDuration ("1:02:03", "4:05"). Anything else is 0.
func ParseDuration(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	if strings.Contains(token, ":") {
		return parseClock(token)
	}
	match := isoDuration.FindStringSubmatch(strings.ToUpper(token))
	if match == nil {
		return 0
	}
	total := 0
	for i, unit := range []int{3600, 60, 1} {
		if match[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(match[i+1])
		if err != nil {
			return 0
		}
		total += n * unit
	}
	return total
}

func parseClock(token string) int {
	parts := strings.Split(token, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0
		}
		// every component after the leading one is a 0-59 two digit field
		if i > 0 && (len(part) != 2 || n > 59) {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// FormatDuration renders seconds as H:MM:SS, or M:SS below one hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	rest := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, rest)
	}
	return fmt.Sprintf("%d:%02d", minutes, rest)
}

// FormatISODuration renders seconds as a provider duration token.
func FormatISODuration(seconds int) string {
	if seconds <= 0 {
		return "PT0S"
	}
	var b strings.Builder
	b.WriteString("PT")
	if h := seconds / 3600; h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m := (seconds % 3600) / 60; m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s := seconds % 60; s > 0 {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}
