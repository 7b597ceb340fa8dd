package util

import (
	"fmt"
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, a bare "2006-01-02 15:04:05" and
// unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// Ago renders the distance between t and now as "3d 4h ago", "2h 5m ago" or
// "7m ago". A zero time yields "".
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	mins := int(d / time.Minute)
	hours := mins / 60
	days := hours / 24
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh ago", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm ago", hours, mins%60)
	default:
		return fmt.Sprintf("%dm ago", mins)
	}
}
