package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

// LocationsHandler serves the geographic reference data used by the public
// registration form.
type LocationsHandler struct {
	locations *usecase.LocationService
}

// NewLocationsHandler constructs a LocationsHandler.
func NewLocationsHandler(locations *usecase.LocationService) *LocationsHandler {
	return &LocationsHandler{locations: locations}
}

// Regions lists all regions ordered by code.
func (h *LocationsHandler) Regions(c *gin.Context) {
	regions, err := h.locations.Regions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list regions"))
		return
	}

	payload := make([]RegionPayload, 0, len(regions))
	for _, r := range regions {
		payload = append(payload, RegionPayload{ID: r.ID, Code: r.Code, Name: r.Name})
	}
	c.JSON(http.StatusOK, payload)
}

// Provinces lists the provinces of one region.
func (h *LocationsHandler) Provinces(c *gin.Context) {
	regionID := c.Query("region_id")
	if regionID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "region_id is required"))
		return
	}

	provinces, err := h.locations.Provinces(c.Request.Context(), regionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list provinces"))
		return
	}

	payload := make([]ProvincePayload, 0, len(provinces))
	for _, p := range provinces {
		payload = append(payload, ProvincePayload{ID: p.ID, RegionID: p.RegionID, Name: p.Name})
	}
	c.JSON(http.StatusOK, payload)
}

// Municipalities lists the municipalities of one province.
func (h *LocationsHandler) Municipalities(c *gin.Context) {
	provinceID := c.Query("province_id")
	if provinceID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "province_id is required"))
		return
	}

	municipalities, err := h.locations.Municipalities(c.Request.Context(), provinceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list municipalities"))
		return
	}

	payload := make([]MunicipalityPayload, 0, len(municipalities))
	for _, m := range municipalities {
		payload = append(payload, MunicipalityPayload{ID: m.ID, ProvinceID: m.ProvinceID, Name: m.Name})
	}
	c.JSON(http.StatusOK, payload)
}

// Barangays lists the barangays of one municipality.
func (h *LocationsHandler) Barangays(c *gin.Context) {
	municipalityID := c.Query("municipality_id")
	if municipalityID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "municipality_id is required"))
		return
	}

	barangays, err := h.locations.Barangays(c.Request.Context(), municipalityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list barangays"))
		return
	}

	payload := make([]BarangayPayload, 0, len(barangays))
	for _, b := range barangays {
		payload = append(payload, BarangayPayload{ID: b.ID, MunicipalityID: b.MunicipalityID, Name: b.Name})
	}
	c.JSON(http.StatusOK, payload)
}
