package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/service"
)

// GPSHandler handles HTTP requests for position reporting and live tracking.
type GPSHandler struct {
	gpsService *service.GPSService
}

// NewGPSHandler creates a new GPSHandler.
func NewGPSHandler(gpsService *service.GPSService) *GPSHandler {
	return &GPSHandler{gpsService: gpsService}
}

// UpdateGPSRequest is the HTTP request body for a position report.
type UpdateGPSRequest struct {
	VehicleID string  `json:"vehicle_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	TripID    string  `json:"trip_id,omitempty"`
}

// LiveSnapshotResponse is one entry in the live vehicles listing.
type LiveSnapshotResponse struct {
	VehicleID       string  `json:"vehicle_id"`
	Registration    string  `json:"registration,omitempty"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	TripID          string  `json:"trip_id,omitempty"`
	PickupName      string  `json:"pickup_name,omitempty"`
	DestinationName string  `json:"destination_name,omitempty"`
	LastUpdated     string  `json:"last_updated"`
}

// UpdateGPS handles POST /v1/gps/update
func (h *GPSHandler) UpdateGPS(c *gin.Context) {
	var req UpdateGPSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.gpsService.ReportPosition(c.Request.Context(), service.ReportPositionRequest{
		VehicleID: req.VehicleID,
		Lat:       req.Lat,
		Lng:       req.Lng,
		TripID:    req.TripID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// GetLiveVehicle handles GET /v1/gps/vehicles/:vehicle_id/live
func (h *GPSHandler) GetLiveVehicle(c *gin.Context) {
	snapshot, err := h.gpsService.GetLive(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if snapshot == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "vehicle is not currently tracking"})
		return
	}

	respondJSON(c, http.StatusOK, LiveSnapshotResponse{
		VehicleID:       snapshot.VehicleID,
		Registration:    snapshot.Registration,
		Lat:             snapshot.Lat,
		Lng:             snapshot.Lng,
		TripID:          snapshot.TripID,
		PickupName:      snapshot.PickupName,
		DestinationName: snapshot.DestinationName,
		LastUpdated:     snapshot.LastUpdated.Format(timeFormat),
	})
}

// ListLive handles GET /v1/gps/vehicles/live
func (h *GPSHandler) ListLive(c *gin.Context) {
	snapshots, err := h.gpsService.ListLive(c.Request.Context(), c.Query("organization_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LiveSnapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		response = append(response, LiveSnapshotResponse{
			VehicleID:       s.VehicleID,
			Registration:    s.Registration,
			Lat:             s.Lat,
			Lng:             s.Lng,
			TripID:          s.TripID,
			PickupName:      s.PickupName,
			DestinationName: s.DestinationName,
			LastUpdated:     s.LastUpdated.Format(timeFormat),
		})
	}

	respondJSON(c, http.StatusOK, response)
}
