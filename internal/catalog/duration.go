package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	hoursPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:hours?|hrs?|h)\b`)
	clockPattern = regexp.MustCompile(`^(\d+):(\d{2})$`)
)

// ParseHours converts a course duration label to hours.
// "12 hours", "10 hrs" and "18h" read as whole hours. A clock label "a:bb" reads as
// minutes:seconds when a >= 60 and as hours:minutes otherwise. Anything else is 0.
func ParseHours(label string) float64 {
	label = strings.TrimSpace(label)
	if m := hoursPattern.FindStringSubmatch(label); m != nil {
		n, _ := strconv.Atoi(m[1])
		return float64(n)
	}
	m := clockPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	if a >= 60 {
		return round2(float64(a) / 60)
	}
	return round2(float64(a) + float64(b)/60)
}

// ParseClock converts a lesson duration label "mm:ss" or "h:mm:ss" to seconds.
func ParseClock(label string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(label), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		if i > 0 && n >= 60 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
