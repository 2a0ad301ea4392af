package chart

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/natal-chart/pkg/metrics"
)

// AscendantSource tells whether the ascendant came from the ephemeris or the sun fallback.
type AscendantSource string

const (
	AscendantFromEphemeris AscendantSource = "ephemeris"
	AscendantSunFallback   AscendantSource = "sun_fallback"
)

// Placement is the classified position of one body.
type Placement struct {
	Longitude  float64
	Sign       Sign
	Degree     float64
	Speed      float64
	Retrograde bool
}

// Chart is the immutable result of one build.
type Chart struct {
	JulianDay        JulianDay
	Ascendant        float64
	AscendantSource  AscendantSource
	AscendantErr     error
	Placements       map[Body]Placement
	Houses           map[Body]House
	HouseSystem      HouseSystem
	EphemerisVersion string
}

// Degraded reports whether the ascendant was substituted.
func (c Chart) Degraded() bool {
	return c.AscendantSource == AscendantSunFallback
}

// BirthData is the validated input of a build.
type BirthData struct {
	DOB             string
	TOB             string
	TZOffsetMinutes int
	Lat             float64
	Lon             float64
	HouseSystem     HouseSystem
}

// Builder derives charts from an ephemeris. It keeps no per-request state.
type Builder struct {
	eph    Ephemeris
	logger *slog.Logger
}

// NewBuilder wires the chart builder.
func NewBuilder(eph Ephemeris, logger *slog.Logger) *Builder {
	return &Builder{eph: eph, logger: logger.With("component", "chart.builder")}
}

// Build normalizes the birth time, looks up every body and the ascendant concurrently,
// and assigns houses. A failed body lookup fails the whole build; a failed ascendant
// lookup falls back to the Sun longitude.
func (b *Builder) Build(ctx context.Context, in BirthData) (Chart, error) {
	jd, err := Normalize(b.eph, in.DOB, in.TOB, in.TZOffsetMinutes)
	if err != nil {
		return Chart{}, err
	}

	var (
		positions = make([]Position, len(Bodies))
		cusps     HouseCusps
		houseErr  error
	)
	g, gctx := errgroup.WithContext(ctx)
	for i, body := range Bodies {
		g.Go(func() error {
			start := time.Now()
			pos, err := b.eph.BodyPosition(gctx, jd, body)
			metrics.ObserveLookup("body", start)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrEphemerisLookup, body, err)
			}
			positions[i] = pos
			return nil
		})
	}
	g.Go(func() error {
		start := time.Now()
		cusps, houseErr = b.eph.HousesAndAscendant(gctx, jd, in.Lat, in.Lon)
		metrics.ObserveLookup("houses", start)
		return nil
	})
	// A cancelled caller surfaces as its context error, not as an ephemeris failure.
	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		return Chart{}, err
	}
	if waitErr != nil {
		return Chart{}, waitErr
	}

	placements := make(map[Body]Placement, len(Bodies))
	for i, body := range Bodies {
		lon := NormalizeLongitude(positions[i].Longitude)
		sign, deg := Classify(lon)
		placements[body] = Placement{
			Longitude:  lon,
			Sign:       sign,
			Degree:     deg,
			Speed:      positions[i].Speed,
			Retrograde: positions[i].Speed < 0,
		}
	}

	chart := Chart{
		JulianDay:        jd,
		AscendantSource:  AscendantFromEphemeris,
		Placements:       placements,
		HouseSystem:      in.HouseSystem,
		EphemerisVersion: b.eph.Version(),
	}
	if houseErr != nil {
		chart.Ascendant = placements[Sun].Longitude
		chart.AscendantSource = AscendantSunFallback
		chart.AscendantErr = houseErr
		metrics.AscendantFallbacks.Inc()
		b.logger.Warn("house computation failed, using sun longitude as ascendant",
			"jd_ut", float64(jd), "lat", in.Lat, "lon", in.Lon, "error", houseErr)
	} else {
		chart.Ascendant = NormalizeLongitude(cusps.Ascendant)
	}

	chart.Houses = make(map[Body]House, len(Bodies))
	for _, body := range Bodies {
		house, _ := AssignHouse(chart.Ascendant, placements[body].Longitude, in.HouseSystem)
		chart.Houses[body] = house
	}
	return chart, nil
}
