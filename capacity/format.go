package capacity

import (
	"strconv"
	"strings"
)

// FormatDuration renders milliseconds as "Xh Ymin", omitting zero parts:
// "3h", "3h 15min", "45min". Zero (or anything under a minute) is "0h".
// Negative values keep a leading minus so callers can show them as exceeded.
func FormatDuration(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}

	totalMinutes := ms / 60_000
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, strconv.FormatInt(hours, 10)+"h")
	}
	if minutes > 0 {
		parts = append(parts, strconv.FormatInt(minutes, 10)+"min")
	}
	if len(parts) == 0 {
		return "0h"
	}
	return sign + strings.Join(parts, " ")
}
