package ephemeris

import (
	"math"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

// J2000 is the Julian Day of 2000-01-01 12:00 UT.
const J2000 = 2451545.0

// JulianDayUT converts a Gregorian calendar date with fractional UT hours into a Julian Day.
func JulianDayUT(year, month, day int, hour float64) chart.JulianDay {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}
	a := math.Floor(float64(y) / 100)
	b := 2 - a + math.Floor(a/4)
	jd := math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + b - 1524.5
	return chart.JulianDay(jd + hour/24)
}

// centuries returns Julian centuries since J2000.
func centuries(jd chart.JulianDay) float64 {
	return (float64(jd) - J2000) / 36525
}

func rev(deg float64) float64 {
	return chart.NormalizeLongitude(deg)
}

func sind(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }
func cosd(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }
func tand(deg float64) float64 { return math.Tan(deg * math.Pi / 180) }

func atan2d(y, x float64) float64 { return math.Atan2(y, x) * 180 / math.Pi }

// wrap180 maps an angle difference into (-180, 180].
func wrap180(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}
