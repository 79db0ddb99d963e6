package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" date in UTC.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, time.UTC)
}

// CombineDateMinutes resolves a date string plus minutes-from-midnight into an absolute time (UTC).
func CombineDateMinutes(date string, minutes int) (time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

// MinutesToClock renders minutes-from-midnight as "HH:MM".
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockToMinutes parses "HH:MM" into minutes-from-midnight.
func ClockToMinutes(clock string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", clock)
	}
	return h*60 + m, nil
}
