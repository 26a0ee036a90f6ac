package utils

import (
	"math"
	"strconv"
	"time"
)

// TruncateToWindow truncates a time to the start of its fixed window (UTC)
func TruncateToWindow(t time.Time, window time.Duration) time.Time {
	if window <= 0 {
		window = time.Minute
	}
	return t.UTC().Truncate(window)
}

// GetWindowKey returns the bucket label of the window containing t.
// Minute windows use YYYYMMDDHHMM; other sizes append the unix start second.
func GetWindowKey(t time.Time, window time.Duration) string {
	start := TruncateToWindow(t, window)
	if window == time.Minute || window <= 0 {
		return start.Format("200601021504")
	}
	return start.Format("200601021504") + "-" + strconv.FormatInt(start.Unix(), 10)
}

// WindowEnd returns the instant the window containing t closes
func WindowEnd(t time.Time, window time.Duration) time.Time {
	if window <= 0 {
		window = time.Minute
	}
	return TruncateToWindow(t, window).Add(window)
}

// SecondsUntil returns the whole seconds from now until end, never below 1
func SecondsUntil(now, end time.Time) int {
	secs := int(math.Ceil(end.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// IsTimestampStale checks if a timestamp is older than the specified duration
func IsTimestampStale(now, timestamp time.Time, staleDuration time.Duration) bool {
	return now.Sub(timestamp) > staleDuration
}
