package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetWindowKey_Minute(t *testing.T) {
	ts := time.Date(2025, 3, 9, 14, 7, 59, 999, time.UTC)
	assert.Equal(t, "202503091407", GetWindowKey(ts, time.Minute))
	assert.Equal(t, GetWindowKey(ts, time.Minute), GetWindowKey(ts.Add(-59*time.Second), time.Minute))
	assert.NotEqual(t, GetWindowKey(ts, time.Minute), GetWindowKey(ts.Add(time.Second), time.Minute))
}

func TestGetWindowKey_NonMinuteWindow(t *testing.T) {
	ts := time.Date(2025, 3, 9, 14, 7, 30, 0, time.UTC)
	key := GetWindowKey(ts, 10*time.Second)
	assert.Contains(t, key, "202503091407-")
	assert.NotEqual(t, key, GetWindowKey(ts.Add(10*time.Second), 10*time.Second))
}

func TestWindowEndAndSecondsUntil(t *testing.T) {
	ts := time.Date(2025, 3, 9, 14, 7, 15, 500_000_000, time.UTC)
	end := WindowEnd(ts, time.Minute)
	assert.Equal(t, time.Date(2025, 3, 9, 14, 8, 0, 0, time.UTC), end)
	assert.Equal(t, 45, SecondsUntil(ts, end))
	assert.Equal(t, 1, SecondsUntil(end, end))
	assert.Equal(t, 1, SecondsUntil(end.Add(time.Second), end))
}

func TestIsTimestampStale(t *testing.T) {
	now := time.Now()
	assert.False(t, IsTimestampStale(now, now.Add(-time.Minute), 2*time.Minute))
	assert.True(t, IsTimestampStale(now, now.Add(-3*time.Minute), 2*time.Minute))
}
