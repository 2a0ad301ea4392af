package chart

// Config wires runtime defaults for the chart domain.
type Config struct {
	DefaultAyanamsa    string
	DefaultHouseSystem string
}

// Request captures the payload accepted by the chart service.
// Lat, Lon and TZOffsetMinutes are pointers so a missing field is distinguishable from zero.
type Request struct {
	FullName        *string  `json:"full_name,omitempty"`
	DOB             string   `json:"dob"`
	TOB             string   `json:"tob"`
	Lat             *float64 `json:"lat"`
	Lon             *float64 `json:"lon"`
	TZOffsetMinutes *int     `json:"tz_offset_minutes"`
	Ayanamsa        string   `json:"ayanamsa,omitempty"`
	HouseSystem     string   `json:"house_system,omitempty"`
}

// Response is serialized back to API consumers.
type Response struct {
	FullName         *string             `json:"full_name,omitempty"`
	EphemerisVersion string              `json:"ephemeris_version"`
	JulianDayUT      float64             `json:"jd_ut"`
	AscendantLon     float64             `json:"ascendant_lon"`
	AscendantSource  AscendantSource     `json:"ascendant_source"`
	Planets          map[Body]PlanetView `json:"planets"`
	Houses           map[Body]*int       `json:"houses"`
	RuleHits         []RuleHit           `json:"rule_hits"`
	Ayanamsa         string              `json:"ayanamsa"`
	HouseSystem      string              `json:"house_system"`
}

// PlanetView is the rounded wire form of a Placement.
type PlanetView struct {
	Lon   float64 `json:"lon"`
	Sign  Sign    `json:"sign"`
	Deg   float64 `json:"deg"`
	Retro bool    `json:"retro"`
}

// RuleStat pairs a rule with the number of charts it fired for.
type RuleStat struct {
	Rule
	Hits int64 `json:"hits"`
}
