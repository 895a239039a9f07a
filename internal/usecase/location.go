package usecase

import (
	"context"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
)

// LocationService serves the read-only geographic lookup hierarchy.
type LocationService struct {
	locations port.LocationRepository
}

// NewLocationService constructs a LocationService.
func NewLocationService(locations port.LocationRepository) *LocationService {
	return &LocationService{locations: locations}
}

func (s *LocationService) Regions(ctx context.Context) ([]domain.Region, error) {
	return s.locations.ListRegions(ctx)
}

func (s *LocationService) Provinces(ctx context.Context, regionID string) ([]domain.Province, error) {
	return s.locations.ListProvinces(ctx, regionID)
}

func (s *LocationService) Municipalities(ctx context.Context, provinceID string) ([]domain.Municipality, error) {
	return s.locations.ListMunicipalities(ctx, provinceID)
}

func (s *LocationService) Barangays(ctx context.Context, municipalityID string) ([]domain.Barangay, error) {
	return s.locations.ListBarangays(ctx, municipalityID)
}
