package port

import (
	"context"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// LocationRepository serves the read-only geographic hierarchy.
type LocationRepository interface {
	ListRegions(ctx context.Context) ([]domain.Region, error)
	ListProvinces(ctx context.Context, regionID string) ([]domain.Province, error)
	ListMunicipalities(ctx context.Context, provinceID string) ([]domain.Municipality, error)
	ListBarangays(ctx context.Context, municipalityID string) ([]domain.Barangay, error)
	ResolveNames(ctx context.Context, regionID, provinceID, municipalityID, barangayID string) (region, province, municipality, barangay string, err error)
}
