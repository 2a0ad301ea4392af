package chart

import (
	"fmt"
	"strings"
	"time"
)

// Single-digit month, day, hour and minute fields are accepted.
const birthLayout = "2006-1-2 15:4"

// MaxTZOffsetMinutes bounds tz_offset_minutes to the real-world range of UTC-14:00..UTC+14:00.
const MaxTZOffsetMinutes = 14 * 60

// ParseLocal parses the birth date (YYYY-MM-DD) and time of day (HH:MM, 24h) as a wall clock instant.
func ParseLocal(dob, tob string) (time.Time, error) {
	local, err := time.ParseInLocation(birthLayout, strings.TrimSpace(dob)+" "+strings.TrimSpace(tob), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
	}
	return local, nil
}

// ValidTZOffset reports whether minutes lies within ±MaxTZOffsetMinutes.
func ValidTZOffset(minutes int) bool {
	return minutes >= -MaxTZOffsetMinutes && minutes <= MaxTZOffsetMinutes
}

// Normalize converts local birth data into a Julian Day (UT).
//
// tzOffsetMinutes is east-positive: the number of minutes local time is ahead of UTC
// (India is +330, US Eastern winter time is -300).
func Normalize(cal Calendar, dob, tob string, tzOffsetMinutes int) (JulianDay, error) {
	local, err := ParseLocal(dob, tob)
	if err != nil {
		return 0, err
	}
	if !ValidTZOffset(tzOffsetMinutes) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTZOffset, tzOffsetMinutes)
	}
	utc := local.Add(-time.Duration(tzOffsetMinutes) * time.Minute)
	hour := float64(utc.Hour()) + float64(utc.Minute())/60 + float64(utc.Second())/3600
	return cal.CalendarToTime(utc.Year(), int(utc.Month()), utc.Day(), hour), nil
}
