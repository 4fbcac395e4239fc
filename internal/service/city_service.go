package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// CityService manages the service-area catalog.
type CityService struct {
	cities repository.CityRepository
}

// NewCityService creates the service.
func NewCityService(cities repository.CityRepository) *CityService {
	return &CityService{cities: cities}
}

// List returns cities, optionally only active ones.
func (s *CityService) List(ctx context.Context, activeOnly bool) ([]domain.City, error) {
	result, err := s.cities.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Get loads a city by id.
func (s *CityService) Get(ctx context.Context, cityID string) (*domain.City, error) {
	city, err := s.cities.GetByID(ctx, cityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("city", map[string]any{"city_id": cityID})
		}
		return nil, apperrors.MapError(err)
	}
	return city, nil
}

// Create opens a new service area.
func (s *CityService) Create(ctx context.Context, city *domain.City) error {
	if strings.TrimSpace(city.Name) == "" || strings.TrimSpace(city.State) == "" {
		return apperrors.NewValidationError("name and state are required", nil)
	}
	if err := s.cities.Create(ctx, city); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Update mutates a city, including toggling IsActive to close an area.
func (s *CityService) Update(ctx context.Context, city *domain.City) error {
	if err := s.cities.Update(ctx, city); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("city", map[string]any{"city_id": city.ID})
		}
		return apperrors.MapError(err)
	}
	return nil
}
