package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

// Profile is saved birth data. Charts are never stored; they are recomputed on demand.
type Profile struct {
	ID              uuid.UUID `json:"id"`
	Owner           string    `json:"owner"`
	FullName        string    `json:"full_name,omitempty"`
	DOB             string    `json:"dob"`
	TOB             string    `json:"tob"`
	TZOffsetMinutes int       `json:"tz_offset_minutes"`
	Lat             float64   `json:"lat"`
	Lon             float64   `json:"lon"`
	Ayanamsa        string    `json:"ayanamsa,omitempty"`
	HouseSystem     string    `json:"house_system,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ChartRequest rebuilds the chart input for a saved profile.
func (p Profile) ChartRequest() chart.Request {
	lat, lon, tz := p.Lat, p.Lon, p.TZOffsetMinutes
	req := chart.Request{
		DOB:             p.DOB,
		TOB:             p.TOB,
		Lat:             &lat,
		Lon:             &lon,
		TZOffsetMinutes: &tz,
		Ayanamsa:        p.Ayanamsa,
		HouseSystem:     p.HouseSystem,
	}
	if p.FullName != "" {
		name := p.FullName
		req.FullName = &name
	}
	return req
}

// CreateRequest is the payload for saving a profile. It mirrors the chart request.
type CreateRequest = chart.Request

// ListResponse wraps a page of profiles.
type ListResponse struct {
	Profiles []Profile `json:"profiles"`
}
