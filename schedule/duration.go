package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidDuration = errors.New("invalid duration format")
	ErrNonPositive     = errors.New("duration must be positive")
	ErrOverHorizon     = errors.New("duration exceeds the allowed maximum")
)

var durationRe = regexp.MustCompile(`(\d+)([smhd])`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// maxDurationSeconds keeps the sum far from int64 overflow; anything this
// large is over every horizon anyway.
const maxDurationSeconds = int64(1) << 40

// ParseDuration converts strings like "10s", "1h30m" or "2d" to seconds by
// summing every number+unit pair it finds.
func ParseDuration(input string) (int64, error) {
	matches := durationRe.FindAllStringSubmatch(strings.ToLower(strings.TrimSpace(input)), -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
	}

	var total int64
	for _, match := range matches {
		value, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil || value > maxDurationSeconds {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
		}
		total += value * unitSeconds[match[2]]
		if total > maxDurationSeconds {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
		}
	}
	return total, nil
}

// FormatDuration renders seconds as "1d 2h 3m 4s", dropping zero units.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days, rem := seconds/86400, seconds%86400
	hours, rem := rem/3600, rem%3600
	minutes, secs := rem/60, rem%60

	parts := []string{}
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, " ")
}
