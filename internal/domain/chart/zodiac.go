package chart

import "math"

// Sign is one of the twelve zodiac signs.
type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

// Signs is ordered from 0° (Aries).
var Signs = [12]Sign{Aries, Taurus, Gemini, Cancer, Leo, Virgo, Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces}

// NormalizeLongitude maps any longitude into [0, 360).
func NormalizeLongitude(lon float64) float64 {
	n := math.Mod(lon, 360)
	if n < 0 {
		n += 360
	}
	// tiny negative inputs round up to exactly 360 after the shift
	if n >= 360 {
		n = 0
	}
	return n
}

// SignIndex returns the sign index in [0, 11]; boundaries are right-open.
func SignIndex(lon float64) int {
	idx := int(NormalizeLongitude(lon) / 30)
	if idx > 11 {
		idx = 11
	}
	return idx
}

// Classify returns the sign and the unrounded degree within it, in [0, 30).
func Classify(lon float64) (Sign, float64) {
	n := NormalizeLongitude(lon)
	idx := SignIndex(n)
	deg := n - float64(idx)*30
	if deg < 0 {
		deg = 0
	}
	return Signs[idx], deg
}

// RoundTo rounds v half away from zero to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
