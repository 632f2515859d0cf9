// Package timeutil provides utility functions for day keys and duration
// rounding.
package timeutil

import (
	"fmt"
	"strconv"
	"time"
)

// DayKey converts a time value to the aggregation key for its calendar day.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%d%02d%02d", t.Year(), t.Month(), t.Day())
}

// ParseDayKey converts a YYYYMMDD key back to the start of that day.
func ParseDayKey(key string) (time.Time, error) {
	if len(key) != 8 {
		return time.Time{}, fmt.Errorf("invalid day key: %s", key)
	}

	year, err := strconv.Atoi(key[:4])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key: %s", key)
	}

	month, err := strconv.Atoi(key[4:6])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key: %s", key)
	}

	day, err := strconv.Atoi(key[6:])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key: %s", key)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// CeilMinutes rounds a duration up to whole minutes. Negative durations are
// measured by their magnitude so that one second of overtime already counts
// as a full minute.
func CeilMinutes(d time.Duration) int {
	if d < 0 {
		d = -d
	}

	mins := int(d / time.Minute)
	if d%time.Minute != 0 {
		mins++
	}

	return mins
}

// CeilHours rounds a duration up to whole hours.
func CeilHours(d time.Duration) int {
	if d < 0 {
		d = -d
	}

	hours := int(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}

	return hours
}

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(time.RFC3339Nano))
}
