package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleet/internal/service"
)

// PresetHandler handles HTTP requests for geofence queries.
type PresetHandler struct {
	geofenceService *service.GeofenceService
}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler(geofenceService *service.GeofenceService) *PresetHandler {
	return &PresetHandler{geofenceService: geofenceService}
}

// DetectPresetResponse is the HTTP response for a geofence match.
type DetectPresetResponse struct {
	Matched      bool    `json:"matched"`
	PresetID     string  `json:"preset_id,omitempty"`
	Name         string  `json:"name,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
	RadiusMeters float64 `json:"radius_meters,omitempty"`
}

// DetectPreset handles GET /v1/presets/detect
func (h *PresetHandler) DetectPreset(c *gin.Context) {
	organizationID := c.Query("organization_id")

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lat"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lng"})
		return
	}

	preset, err := h.geofenceService.Detect(c.Request.Context(), organizationID, lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}

	if preset == nil {
		// No geofence matched; an expected outcome, not an error.
		respondJSON(c, http.StatusOK, DetectPresetResponse{Matched: false})
		return
	}

	respondJSON(c, http.StatusOK, DetectPresetResponse{
		Matched:      true,
		PresetID:     preset.ID,
		Name:         preset.Name,
		Latitude:     preset.Latitude,
		Longitude:    preset.Longitude,
		RadiusMeters: preset.RadiusMeters,
	})
}
