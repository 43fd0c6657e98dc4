// Package util provides small shared helpers: environment lookups, date math,
// repository path normalization and display formatting.
package util

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// ParseTime parses the timestamp formats the upstream APIs emit (RFC 3339,
// with or without sub-second precision).
func ParseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05.000Z"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysSince returns the number of whole days between the given timestamp and
// now. The second return is false when the timestamp is absent or unparsable.
func DaysSince(value string, now time.Time) (int, bool) {
	t, ok := ParseTime(value)
	if !ok {
		return 0, false
	}
	return int(now.Sub(t).Hours() / 24), true
}

// CleanRepoPath extracts "owner/repo" from decorated repository references
// such as "owner/repo#branch" or "owner/repo/subdir". A reference without
// both segments is invalid and yields "".
func CleanRepoPath(repo string) string {
	if repo == "" {
		return ""
	}
	repo = strings.SplitN(repo, "#", 2)[0]
	parts := strings.Split(repo, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return parts[0] + "/" + parts[1]
}

// FormatNumber renders a count with K/M suffixes for display.
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.0fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// FormatBytes renders a byte count in human readable units.
func FormatBytes(b int64) string {
	switch {
	case b < 1024:
		return fmt.Sprintf("%d B", b)
	case b < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(b)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(b)/(1024*1024))
	}
}
