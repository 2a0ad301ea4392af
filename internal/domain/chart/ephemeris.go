package chart

import (
	"context"
	"sync"
)

// JulianDay is a continuous day count anchored to Universal Time.
type JulianDay float64

// Body identifies one of the fixed celestial bodies placed in every chart.
type Body string

const (
	Sun     Body = "sun"
	Moon    Body = "moon"
	Mars    Body = "mars"
	Mercury Body = "mercury"
	Jupiter Body = "jupiter"
	Venus   Body = "venus"
	Saturn  Body = "saturn"
	Rahu    Body = "rahu" // mean north lunar node
)

// Bodies lists every body a chart carries.
var Bodies = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu}

// Position is the instantaneous ecliptic longitude and its daily rate of change.
type Position struct {
	Longitude float64
	Speed     float64
}

// HouseCusps is the result of a house/ascendant lookup.
type HouseCusps struct {
	Cusps     [12]float64
	Ascendant float64
	MC        float64
}

// Calendar converts a UT calendar instant into a Julian Day.
type Calendar interface {
	CalendarToTime(year, month, day int, hour float64) JulianDay
}

// Ephemeris is the astronomical collaborator consumed by the chart builder.
type Ephemeris interface {
	Calendar
	BodyPosition(ctx context.Context, jd JulianDay, body Body) (Position, error)
	HousesAndAscendant(ctx context.Context, jd JulianDay, lat, lon float64) (HouseCusps, error)
	Version() string
}

// Serialized guards an ephemeris that is not safe for concurrent use behind a single mutex.
func Serialized(inner Ephemeris) Ephemeris {
	if s, ok := inner.(*serializedEphemeris); ok {
		return s
	}
	return &serializedEphemeris{inner: inner}
}

type serializedEphemeris struct {
	mu    sync.Mutex
	inner Ephemeris
}

func (s *serializedEphemeris) CalendarToTime(year, month, day int, hour float64) JulianDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.CalendarToTime(year, month, day, hour)
}

func (s *serializedEphemeris) BodyPosition(ctx context.Context, jd JulianDay, body Body) (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.BodyPosition(ctx, jd, body)
}

func (s *serializedEphemeris) HousesAndAscendant(ctx context.Context, jd JulianDay, lat, lon float64) (HouseCusps, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.HousesAndAscendant(ctx, jd, lat, lon)
}

func (s *serializedEphemeris) Version() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Version()
}
