package chart

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	apperrors "github.com/yanqian/natal-chart/pkg/errors"
	"github.com/yanqian/natal-chart/pkg/metrics"
)

// DefaultAyanamsa is echoed when a request omits the selector.
const DefaultAyanamsa = "Lahiri"

// Service exposes natal chart computation.
type Service interface {
	Compute(ctx context.Context, req Request) (Response, error)
	Rules(ctx context.Context) ([]RuleStat, error)
	EphemerisVersion() string
}

// StatsStore keeps best-effort rule hit counters.
type StatsStore interface {
	RecordHits(ctx context.Context, codes []string) error
	Counts(ctx context.Context) (map[string]int64, error)
}

type service struct {
	cfg     Config
	eph     Ephemeris
	builder *Builder
	engine  *Engine
	stats   StatsStore
	logger  *slog.Logger
}

// NewService wires up the chart domain.
func NewService(cfg Config, eph Ephemeris, engine *Engine, stats StatsStore, logger *slog.Logger) Service {
	if strings.TrimSpace(cfg.DefaultAyanamsa) == "" {
		cfg.DefaultAyanamsa = DefaultAyanamsa
	}
	if strings.TrimSpace(cfg.DefaultHouseSystem) == "" {
		cfg.DefaultHouseSystem = DefaultHouseSystem
	}
	if stats == nil {
		stats = noopStats{}
	}
	return &service{
		cfg:     cfg,
		eph:     eph,
		builder: NewBuilder(eph, logger),
		engine:  engine,
		stats:   stats,
		logger:  logger.With("component", "chart.service"),
	}
}

func (s *service) Compute(ctx context.Context, req Request) (Response, error) {
	birth, err := s.resolve(req)
	if err != nil {
		metrics.ChartComputations.WithLabelValues(metrics.ResultInvalidInput).Inc()
		return Response{}, err
	}

	chart, err := s.builder.Build(ctx, birth)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTimeFormat):
			metrics.ChartComputations.WithLabelValues(metrics.ResultInvalidInput).Inc()
			return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, ErrInvalidTimeFormat.Error(), err)
		case errors.Is(err, ErrInvalidTZOffset):
			metrics.ChartComputations.WithLabelValues(metrics.ResultInvalidInput).Inc()
			return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, ErrInvalidTZOffset.Error(), err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			metrics.ChartComputations.WithLabelValues(metrics.ResultCanceled).Inc()
			return Response{}, apperrors.Wrap(apperrors.CodeCanceled, "chart computation canceled", err)
		case errors.Is(err, ErrEphemerisLookup):
			metrics.ChartComputations.WithLabelValues(metrics.ResultFailed).Inc()
			return Response{}, apperrors.Wrap(apperrors.CodeEphemerisError, "ephemeris lookup failed", err)
		default:
			metrics.ChartComputations.WithLabelValues(metrics.ResultFailed).Inc()
			return Response{}, apperrors.Wrap(apperrors.CodeChartError, "chart computation failed", err)
		}
	}

	hits := s.engine.Evaluate(chart)
	s.recordHits(ctx, hits)

	result := metrics.ResultOK
	if chart.Degraded() {
		result = metrics.ResultDegraded
	}
	metrics.ChartComputations.WithLabelValues(result).Inc()
	s.logger.Info("chart computed",
		"jd_ut", float64(chart.JulianDay),
		"house_system", chart.HouseSystem.ID,
		"ascendant_source", chart.AscendantSource,
		"rule_hits", len(hits))

	ayanamsa := strings.TrimSpace(req.Ayanamsa)
	if ayanamsa == "" {
		ayanamsa = s.cfg.DefaultAyanamsa
	}
	return toResponse(chart, hits, ayanamsa, req.FullName), nil
}

func (s *service) Rules(ctx context.Context) ([]RuleStat, error) {
	rules := s.engine.Rules()
	counts, err := s.stats.Counts(ctx)
	if err != nil {
		s.logger.Warn("rule stats fetch failed", "error", err)
		counts = nil
	}
	out := make([]RuleStat, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleStat{Rule: r, Hits: counts[r.Code]})
	}
	return out, nil
}

func (s *service) EphemerisVersion() string {
	return s.eph.Version()
}

// Validate checks a request without touching the ephemeris.
func Validate(req Request) error {
	if req.Lat == nil || req.Lon == nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "lat and lon are required", nil)
	}
	if req.TZOffsetMinutes == nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "tz_offset_minutes is required", nil)
	}
	if !ValidTZOffset(*req.TZOffsetMinutes) {
		return apperrors.Wrap(apperrors.CodeInvalidInput, ErrInvalidTZOffset.Error(), ErrInvalidTZOffset)
	}
	if !validCoordinates(*req.Lat, *req.Lon) {
		return apperrors.Wrap(apperrors.CodeInvalidInput, ErrInvalidCoordinates.Error(), ErrInvalidCoordinates)
	}
	if _, err := ParseLocal(req.DOB, req.TOB); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, ErrInvalidTimeFormat.Error(), err)
	}
	return nil
}

func (s *service) resolve(req Request) (BirthData, error) {
	if err := Validate(req); err != nil {
		return BirthData{}, err
	}
	houseSystem := req.HouseSystem
	if strings.TrimSpace(houseSystem) == "" {
		houseSystem = s.cfg.DefaultHouseSystem
	}
	return BirthData{
		DOB:             req.DOB,
		TOB:             req.TOB,
		TZOffsetMinutes: *req.TZOffsetMinutes,
		Lat:             *req.Lat,
		Lon:             *req.Lon,
		HouseSystem:     ParseHouseSystem(houseSystem),
	}, nil
}

func (s *service) recordHits(ctx context.Context, hits []RuleHit) {
	if len(hits) == 0 {
		return
	}
	codes := make([]string, 0, len(hits))
	for _, hit := range hits {
		codes = append(codes, hit.Code)
		metrics.RuleHits.WithLabelValues(hit.Code).Inc()
	}
	if err := s.stats.RecordHits(ctx, codes); err != nil {
		s.logger.Warn("rule stats record failed", "error", err)
	}
}

func toResponse(c Chart, hits []RuleHit, ayanamsa string, fullName *string) Response {
	planets := make(map[Body]PlanetView, len(c.Placements))
	for body, p := range c.Placements {
		planets[body] = PlanetView{
			Lon:   RoundTo(p.Longitude, 6),
			Sign:  p.Sign,
			Deg:   RoundTo(p.Degree, 2),
			Retro: p.Retrograde,
		}
	}
	houses := make(map[Body]*int, len(c.Houses))
	for body, h := range c.Houses {
		if !h.Assigned() {
			houses[body] = nil
			continue
		}
		n := int(h)
		houses[body] = &n
	}
	return Response{
		FullName:         fullName,
		EphemerisVersion: c.EphemerisVersion,
		JulianDayUT:      RoundTo(float64(c.JulianDay), 6),
		AscendantLon:     RoundTo(c.Ascendant, 6),
		AscendantSource:  c.AscendantSource,
		Planets:          planets,
		Houses:           houses,
		RuleHits:         hits,
		Ayanamsa:         ayanamsa,
		HouseSystem:      c.HouseSystem.ID,
	}
}

func validCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

type noopStats struct{}

func (noopStats) RecordHits(context.Context, []string) error { return nil }

func (noopStats) Counts(context.Context) (map[string]int64, error) { return nil, nil }
