package chart

import "errors"

var (
	// ErrInvalidTimeFormat is returned when dob/tob do not parse.
	ErrInvalidTimeFormat = errors.New("invalid dob/tob format (YYYY-MM-DD and HH:MM 24h)")

	// ErrInvalidTZOffset is returned for offsets beyond ±14h.
	ErrInvalidTZOffset = errors.New("tz_offset_minutes must be within [-840,840]")

	// ErrInvalidCoordinates is returned for latitude/longitude outside their ranges.
	ErrInvalidCoordinates = errors.New("lat must be within [-90,90] and lon within [-180,180]")

	// ErrEphemerisLookup is returned when a per-body ephemeris lookup fails.
	ErrEphemerisLookup = errors.New("ephemeris lookup failed")
)
