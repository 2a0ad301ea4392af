package util

import "time"

// Clock returns the current instant; services take one so tests can pin time.
type Clock func() time.Time

// NowUTC is the production Clock.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports t in UTC.
func FixedClock(t time.Time) Clock {
	utc := t.UTC()
	return func() time.Time { return utc }
}
