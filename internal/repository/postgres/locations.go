package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
)

// LocationRepository serves the read-only geographic hierarchy.
type LocationRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewLocationRepository wires a PostgreSQL-backed location repository.
func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListRegions returns all regions ordered by code.
func (r *LocationRepository) ListRegions(ctx context.Context) ([]domain.Region, error) {
	stmt, args, err := r.builder.Select("id", "code", "name").
		From("chp.regions").
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list regions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	regions := make([]domain.Region, 0)
	for rows.Next() {
		var region domain.Region
		if err := rows.Scan(&region.ID, &region.Code, &region.Name); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		regions = append(regions, region)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}

	return regions, nil
}

// ListProvinces returns the provinces of one region ordered by name.
func (r *LocationRepository) ListProvinces(ctx context.Context, regionID string) ([]domain.Province, error) {
	stmt, args, err := r.builder.Select("id", "region_id", "name").
		From("chp.provinces").
		Where(squirrel.Eq{"region_id": regionID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list provinces sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query provinces: %w", err)
	}
	defer rows.Close()

	provinces := make([]domain.Province, 0)
	for rows.Next() {
		var province domain.Province
		if err := rows.Scan(&province.ID, &province.RegionID, &province.Name); err != nil {
			return nil, fmt.Errorf("scan province: %w", err)
		}
		provinces = append(provinces, province)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provinces: %w", err)
	}

	return provinces, nil
}

// ListMunicipalities returns the municipalities of one province ordered by name.
func (r *LocationRepository) ListMunicipalities(ctx context.Context, provinceID string) ([]domain.Municipality, error) {
	stmt, args, err := r.builder.Select("id", "province_id", "name").
		From("chp.municipalities").
		Where(squirrel.Eq{"province_id": provinceID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list municipalities sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query municipalities: %w", err)
	}
	defer rows.Close()

	municipalities := make([]domain.Municipality, 0)
	for rows.Next() {
		var municipality domain.Municipality
		if err := rows.Scan(&municipality.ID, &municipality.ProvinceID, &municipality.Name); err != nil {
			return nil, fmt.Errorf("scan municipality: %w", err)
		}
		municipalities = append(municipalities, municipality)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate municipalities: %w", err)
	}

	return municipalities, nil
}

// ListBarangays returns the barangays of one municipality ordered by name.
func (r *LocationRepository) ListBarangays(ctx context.Context, municipalityID string) ([]domain.Barangay, error) {
	stmt, args, err := r.builder.Select("id", "municipality_id", "name").
		From("chp.barangays").
		Where(squirrel.Eq{"municipality_id": municipalityID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list barangays sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query barangays: %w", err)
	}
	defer rows.Close()

	barangays := make([]domain.Barangay, 0)
	for rows.Next() {
		var barangay domain.Barangay
		if err := rows.Scan(&barangay.ID, &barangay.MunicipalityID, &barangay.Name); err != nil {
			return nil, fmt.Errorf("scan barangay: %w", err)
		}
		barangays = append(barangays, barangay)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate barangays: %w", err)
	}

	return barangays, nil
}

// ResolveNames returns the display names of one full location chain. The chain
// must be consistent; a broken link resolves to ErrNotFound.
func (r *LocationRepository) ResolveNames(ctx context.Context, regionID, provinceID, municipalityID, barangayID string) (region, province, municipality, barangay string, err error) {
	stmt, args, err := r.builder.Select("rg.name", "pv.name", "mn.name", "br.name").
		From("chp.barangays br").
		Join("chp.municipalities mn ON mn.id = br.municipality_id").
		Join("chp.provinces pv ON pv.id = mn.province_id").
		Join("chp.regions rg ON rg.id = pv.region_id").
		Where(squirrel.Eq{
			"br.id": barangayID,
			"mn.id": municipalityID,
			"pv.id": provinceID,
			"rg.id": regionID,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", "", "", "", fmt.Errorf("build resolve location names sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&region, &province, &municipality, &barangay); err != nil {
		if err == pgx.ErrNoRows {
			return "", "", "", "", repository.ErrNotFound
		}
		return "", "", "", "", fmt.Errorf("scan location names: %w", err)
	}

	return region, province, municipality, barangay, nil
}

var _ port.LocationRepository = (*LocationRepository)(nil)
