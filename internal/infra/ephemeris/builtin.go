package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

// BuiltinVersion identifies the analytic provider in chart responses.
const BuiltinVersion = "builtin-analytic/1.0"

const (
	// epochOffset converts a Julian Day into days since 1999-12-31 0:00 UT.
	epochOffset = 2451543.5

	// speedStep is the half-width, in days, of the finite difference used for speeds.
	speedStep = 0.5

	keplerTolerance = 1e-8
	keplerMaxIter   = 50
)

var (
	errUnknownBody   = errors.New("unknown body")
	errPolarLatitude = errors.New("ascendant is undefined at the poles")
	errNonFinite     = errors.New("non-finite input")
)

// Builtin is a low-precision analytic ephemeris. It is read-only after construction
// and safe for concurrent use.
type Builtin struct {
	elements map[chart.Body]Elements
	version  string
}

// NewBuiltin builds an analytic ephemeris. Missing bodies fall back to DefaultElements.
func NewBuiltin(elements map[chart.Body]Elements, source string) *Builtin {
	merged := DefaultElements()
	for body, el := range elements {
		merged[body] = el
	}
	version := BuiltinVersion
	if source != "" {
		version += "+" + source
	}
	return &Builtin{elements: merged, version: version}
}

func (b *Builtin) CalendarToTime(year, month, day int, hour float64) chart.JulianDay {
	return JulianDayUT(year, month, day, hour)
}

func (b *Builtin) Version() string {
	return b.version
}

// BodyPosition returns the geocentric ecliptic longitude of body and its daily motion.
func (b *Builtin) BodyPosition(ctx context.Context, jd chart.JulianDay, body chart.Body) (chart.Position, error) {
	if err := ctx.Err(); err != nil {
		return chart.Position{}, err
	}
	if !finite(float64(jd)) {
		return chart.Position{}, errNonFinite
	}
	lonAt, err := b.longitudeFunc(body)
	if err != nil {
		return chart.Position{}, err
	}
	lon := lonAt(float64(jd))
	speed := wrap180(lonAt(float64(jd)+speedStep)-lonAt(float64(jd)-speedStep)) / (2 * speedStep)
	return chart.Position{Longitude: lon, Speed: speed}, nil
}

// HousesAndAscendant derives the ascendant and midheaven from local sidereal time
// and lays out equal cusps from the ascendant.
func (b *Builtin) HousesAndAscendant(ctx context.Context, jd chart.JulianDay, lat, lon float64) (chart.HouseCusps, error) {
	if err := ctx.Err(); err != nil {
		return chart.HouseCusps{}, err
	}
	if !finite(float64(jd)) || !finite(lat) || !finite(lon) {
		return chart.HouseCusps{}, errNonFinite
	}
	if math.Abs(lat) >= 90 {
		return chart.HouseCusps{}, errPolarLatitude
	}
	t := centuries(jd)
	ramc := rev(siderealTime(jd) + lon)
	eps := obliquity(t)

	asc := rev(atan2d(cosd(ramc), -(sind(ramc)*cosd(eps) + tand(lat)*sind(eps))))
	mc := rev(atan2d(sind(ramc), cosd(ramc)*cosd(eps)))

	var cusps chart.HouseCusps
	for k := range cusps.Cusps {
		cusps.Cusps[k] = rev(asc + float64(k)*30)
	}
	cusps.Ascendant = asc
	cusps.MC = mc
	return cusps, nil
}

func (b *Builtin) longitudeFunc(body chart.Body) (func(jd float64) float64, error) {
	switch body {
	case chart.Sun:
		return func(jd float64) float64 {
			lon, _ := b.sun(jd - epochOffset)
			return lon
		}, nil
	case chart.Moon:
		return b.moon, nil
	case chart.Rahu:
		return meanNode, nil
	case chart.Mercury, chart.Venus, chart.Mars, chart.Jupiter, chart.Saturn:
		return func(jd float64) float64 { return b.planet(body, jd) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBody, body)
	}
}

// sun returns the Sun's ecliptic longitude and distance in AU.
func (b *Builtin) sun(d float64) (float64, float64) {
	o := b.elements[chart.Sun].at(d)
	v, r := anomalyAndRadius(o)
	return rev(v + o.w), r
}

func (b *Builtin) moon(jd float64) float64 {
	d := jd - epochOffset
	o := b.elements[chart.Moon].at(d)
	lon, _ := heliocentric(o)

	sunOrbit := b.elements[chart.Sun].at(d)
	ms, mm := sunOrbit.m, o.m
	ls := ms + sunOrbit.w
	lm := mm + o.w + o.n
	dd := lm - ls
	f := lm - o.n

	lon += -1.274*sind(mm-2*dd) +
		0.658*sind(2*dd) -
		0.186*sind(ms) -
		0.059*sind(2*mm-2*dd) -
		0.057*sind(mm-2*dd+ms) +
		0.053*sind(mm+2*dd) +
		0.046*sind(2*dd-ms) +
		0.041*sind(mm-ms) -
		0.035*sind(dd) -
		0.031*sind(mm+ms) -
		0.015*sind(2*f-2*dd) +
		0.011*sind(mm-4*dd)
	return rev(lon)
}

func (b *Builtin) planet(body chart.Body, jd float64) float64 {
	d := jd - epochOffset
	o := b.elements[body].at(d)
	lon, lat := heliocentric(o)
	_, r := anomalyAndRadius(o)

	mj := b.elements[chart.Jupiter].at(d).m
	ms := b.elements[chart.Saturn].at(d).m
	switch body {
	case chart.Jupiter:
		lon += -0.332*sind(2*mj-5*ms-67.6) -
			0.056*sind(2*mj-2*ms+21) +
			0.042*sind(3*mj-5*ms+21) -
			0.036*sind(mj-2*ms) +
			0.022*cosd(mj-ms) +
			0.023*sind(2*mj-3*ms+52) -
			0.016*sind(mj-5*ms-69)
	case chart.Saturn:
		lon += 0.812*sind(2*mj-5*ms-67.6) -
			0.229*cosd(2*mj-4*ms-2) +
			0.119*sind(mj-2*ms-3) +
			0.046*sind(2*mj-6*ms-69) +
			0.014*sind(mj-3*ms+32)
	}

	xh := r * cosd(lon) * cosd(lat)
	yh := r * sind(lon) * cosd(lat)
	sunLon, sunR := b.sun(d)
	xg := xh + sunR*cosd(sunLon)
	yg := yh + sunR*sind(sunLon)
	return rev(atan2d(yg, xg))
}

// heliocentric returns ecliptic longitude and latitude of an orbit in degrees.
func heliocentric(o orbit) (float64, float64) {
	v, r := anomalyAndRadius(o)
	u := v + o.w
	xh := r * (cosd(o.n)*cosd(u) - sind(o.n)*sind(u)*cosd(o.i))
	yh := r * (sind(o.n)*cosd(u) + cosd(o.n)*sind(u)*cosd(o.i))
	zh := r * sind(u) * sind(o.i)
	return rev(atan2d(yh, xh)), atan2d(zh, math.Hypot(xh, yh))
}

// anomalyAndRadius solves Kepler's equation and returns true anomaly and distance.
func anomalyAndRadius(o orbit) (float64, float64) {
	ecc := eccentricAnomaly(o.m, o.e)
	xv := o.a * (cosd(ecc) - o.e)
	yv := o.a * math.Sqrt(1-o.e*o.e) * sind(ecc)
	return atan2d(yv, xv), math.Hypot(xv, yv)
}

func eccentricAnomaly(m, e float64) float64 {
	deg := 180 / math.Pi
	ecc := m + e*deg*sind(m)*(1+e*cosd(m))
	for range keplerMaxIter {
		next := ecc - (ecc-e*deg*sind(ecc)-m)/(1-e*cosd(ecc))
		if math.Abs(next-ecc) < keplerTolerance {
			return next
		}
		ecc = next
	}
	return ecc
}

// meanNode is the longitude of the mean ascending lunar node.
func meanNode(jd float64) float64 {
	t := centuries(chart.JulianDay(jd))
	return rev(125.04452 - 1934.136261*t + 0.0020708*t*t + t*t*t/450000)
}

// siderealTime is Greenwich mean sidereal time in degrees.
func siderealTime(jd chart.JulianDay) float64 {
	t := centuries(jd)
	return rev(280.46061837 + 360.98564736629*(float64(jd)-J2000) + 0.000387933*t*t - t*t*t/38710000)
}

// obliquity is the mean obliquity of the ecliptic in degrees.
func obliquity(t float64) float64 {
	return 23.439291 - 0.0130042*t
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
