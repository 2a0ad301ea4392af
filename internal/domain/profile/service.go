package profile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/natal-chart/internal/domain/chart"
	apperrors "github.com/yanqian/natal-chart/pkg/errors"
	"github.com/yanqian/natal-chart/pkg/util"
)

const maxFullNameLength = 200

// Service manages saved birth profiles.
type Service interface {
	Create(ctx context.Context, owner string, req CreateRequest) (Profile, error)
	Get(ctx context.Context, owner, id string) (Profile, error)
	List(ctx context.Context, owner string) ([]Profile, error)
	Delete(ctx context.Context, owner, id string) error
	Chart(ctx context.Context, owner, id string) (chart.Response, error)
}

type service struct {
	repo   Repository
	charts chart.Service
	clock  util.Clock
	logger *slog.Logger
}

// NewService constructs a Service instance. A nil clock uses util.NowUTC.
func NewService(repo Repository, charts chart.Service, clock util.Clock, logger *slog.Logger) Service {
	if clock == nil {
		clock = util.NowUTC
	}
	return &service{
		repo:   repo,
		charts: charts,
		clock:  clock,
		logger: logger.With("component", "profile.service"),
	}
}

func (s *service) Create(ctx context.Context, owner string, req CreateRequest) (Profile, error) {
	if err := chart.Validate(req); err != nil {
		return Profile{}, err
	}
	var fullName string
	if req.FullName != nil {
		fullName = strings.TrimSpace(*req.FullName)
	}
	if len([]rune(fullName)) > maxFullNameLength {
		return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, "full_name is too long", nil)
	}
	p := Profile{
		ID:              uuid.New(),
		Owner:           owner,
		FullName:        fullName,
		DOB:             strings.TrimSpace(req.DOB),
		TOB:             strings.TrimSpace(req.TOB),
		TZOffsetMinutes: *req.TZOffsetMinutes,
		Lat:             *req.Lat,
		Lon:             *req.Lon,
		Ayanamsa:        strings.TrimSpace(req.Ayanamsa),
		HouseSystem:     strings.TrimSpace(req.HouseSystem),
		CreatedAt:       s.clock(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, apperrors.Wrap(apperrors.CodeProfileError, "failed to save profile", err)
	}
	s.logger.Info("profile created", "id", p.ID.String(), "owner", owner)
	return p, nil
}

func (s *service) Get(ctx context.Context, owner, id string) (Profile, error) {
	profileID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return Profile{}, notFound()
	}
	p, found, err := s.repo.Get(ctx, profileID)
	if err != nil {
		return Profile{}, apperrors.Wrap(apperrors.CodeProfileError, "failed to load profile", err)
	}
	if !found || p.Owner != owner {
		return Profile{}, notFound()
	}
	return p, nil
}

func (s *service) List(ctx context.Context, owner string) ([]Profile, error) {
	profiles, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeProfileError, "failed to list profiles", err)
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	return profiles, nil
}

func (s *service) Delete(ctx context.Context, owner, id string) error {
	p, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, p.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeProfileError, "failed to delete profile", err)
	}
	if !deleted {
		return notFound()
	}
	s.logger.Info("profile deleted", "id", p.ID.String(), "owner", owner)
	return nil
}

func (s *service) Chart(ctx context.Context, owner, id string) (chart.Response, error) {
	p, err := s.Get(ctx, owner, id)
	if err != nil {
		return chart.Response{}, err
	}
	return s.charts.Compute(ctx, p.ChartRequest())
}

func notFound() error {
	return apperrors.Wrap(apperrors.CodeNotFound, ErrNotFound.Error(), ErrNotFound)
}
