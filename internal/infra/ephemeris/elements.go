package ephemeris

import (
	"fmt"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

// Term is a linear function of days since 1999-12-31 0:00 UT.
type Term struct {
	Base float64 `yaml:"base"`
	Rate float64 `yaml:"rate"`
}

func (t Term) at(d float64) float64 { return t.Base + t.Rate*d }

// Elements are mean orbital elements. Angles are degrees, Axis is AU
// (Earth radii for the Moon).
type Elements struct {
	Node         Term `yaml:"node"`
	Inclination  Term `yaml:"inclination"`
	Perihelion   Term `yaml:"perihelion"`
	Axis         Term `yaml:"axis"`
	Eccentricity Term `yaml:"eccentricity"`
	Anomaly      Term `yaml:"anomaly"`
}

func (e Elements) validate() error {
	if e.Axis.Base <= 0 {
		return fmt.Errorf("axis must be positive, got %v", e.Axis.Base)
	}
	if e.Eccentricity.Base < 0 || e.Eccentricity.Base >= 1 {
		return fmt.Errorf("eccentricity must be within [0,1), got %v", e.Eccentricity.Base)
	}
	if e.Anomaly.Rate == 0 {
		return fmt.Errorf("anomaly rate cannot be zero")
	}
	return nil
}

type orbit struct {
	n, i, w, a, e, m float64
}

func (e Elements) at(d float64) orbit {
	return orbit{
		n: e.Node.at(d),
		i: e.Inclination.at(d),
		w: e.Perihelion.at(d),
		a: e.Axis.at(d),
		e: e.Eccentricity.at(d),
		m: rev(e.Anomaly.at(d)),
	}
}

// DefaultElements returns the built-in element set for every body with a Keplerian orbit.
// Rahu is derived from the mean lunar node and has no entry.
func DefaultElements() map[chart.Body]Elements {
	return map[chart.Body]Elements{
		chart.Sun: {
			Perihelion:   Term{282.9404, 4.70935e-5},
			Axis:         Term{1.0, 0},
			Eccentricity: Term{0.016709, -1.151e-9},
			Anomaly:      Term{356.0470, 0.9856002585},
		},
		chart.Moon: {
			Node:         Term{125.1228, -0.0529538083},
			Inclination:  Term{5.1454, 0},
			Perihelion:   Term{318.0634, 0.1643573223},
			Axis:         Term{60.2666, 0},
			Eccentricity: Term{0.054900, 0},
			Anomaly:      Term{115.3654, 13.0649929509},
		},
		chart.Mercury: {
			Node:         Term{48.3313, 3.24587e-5},
			Inclination:  Term{7.0047, 5.00e-8},
			Perihelion:   Term{29.1241, 1.01444e-5},
			Axis:         Term{0.387098, 0},
			Eccentricity: Term{0.205635, 5.59e-10},
			Anomaly:      Term{168.6562, 4.0923344368},
		},
		chart.Venus: {
			Node:         Term{76.6799, 2.46590e-5},
			Inclination:  Term{3.3946, 2.75e-8},
			Perihelion:   Term{54.8910, 1.38374e-5},
			Axis:         Term{0.723330, 0},
			Eccentricity: Term{0.006773, -1.302e-9},
			Anomaly:      Term{48.0052, 1.6021302244},
		},
		chart.Mars: {
			Node:         Term{49.5574, 2.11081e-5},
			Inclination:  Term{1.8497, -1.78e-8},
			Perihelion:   Term{286.5016, 2.92961e-5},
			Axis:         Term{1.523688, 0},
			Eccentricity: Term{0.093405, 2.516e-9},
			Anomaly:      Term{18.6021, 0.5240207766},
		},
		chart.Jupiter: {
			Node:         Term{100.4542, 2.76854e-5},
			Inclination:  Term{1.3030, -1.557e-7},
			Perihelion:   Term{273.8777, 1.64505e-5},
			Axis:         Term{5.20256, 0},
			Eccentricity: Term{0.048498, 4.469e-9},
			Anomaly:      Term{19.8950, 0.0830853001},
		},
		chart.Saturn: {
			Node:         Term{113.6634, 2.38980e-5},
			Inclination:  Term{2.4886, -1.081e-7},
			Perihelion:   Term{339.3939, 2.97661e-5},
			Axis:         Term{9.55475, 0},
			Eccentricity: Term{0.055546, -9.499e-9},
			Anomaly:      Term{316.9670, 0.0334442282},
		},
	}
}
