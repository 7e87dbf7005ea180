package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CoordinatesRequest is a raw coordinate pair in a request body.
type CoordinatesRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CreateTripRequest is the HTTP request body for creating a trip.
type CreateTripRequest struct {
	OrganizationID      string              `json:"organization_id"`
	DriverID            string              `json:"driver_id"`
	VehicleID           string              `json:"vehicle_id"`
	SourcePresetID      string              `json:"source_preset_id,omitempty"`
	DestinationPresetID string              `json:"destination_preset_id,omitempty"`
	Pickup              *CoordinatesRequest `json:"pickup,omitempty"`
	Drop                *CoordinatesRequest `json:"drop,omitempty"`
	IsFixedTariff       bool                `json:"is_fixed_tariff"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	TripID              string              `json:"trip_id"`
	OrganizationID      string              `json:"organization_id"`
	DriverID            string              `json:"driver_id"`
	VehicleID           string              `json:"vehicle_id"`
	SourcePresetID      string              `json:"source_preset_id,omitempty"`
	DestinationPresetID string              `json:"destination_preset_id,omitempty"`
	Pickup              *CoordinatesRequest `json:"pickup,omitempty"`
	Drop                *CoordinatesRequest `json:"drop,omitempty"`
	IsFixedTariff       bool                `json:"is_fixed_tariff"`
	Status              string              `json:"status"`
	StartTime           string              `json:"start_time,omitempty"`
	EndTime             string              `json:"end_time,omitempty"`
	DistanceKm          float64             `json:"distance_km"`
	TotalAmount         float64             `json:"total_amount"`
	Invoice             *InvoiceInfo        `json:"invoice,omitempty"`
}

// InvoiceInfo contains invoice details in a trip response.
type InvoiceInfo struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
}

func tripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		TripID:              trip.ID,
		OrganizationID:      trip.OrganizationID,
		DriverID:            trip.DriverID,
		VehicleID:           trip.VehicleID,
		SourcePresetID:      trip.SourcePresetID,
		DestinationPresetID: trip.DestinationPresetID,
		IsFixedTariff:       trip.IsFixedTariff,
		Status:              string(trip.Status),
		DistanceKm:          trip.DistanceKm,
		TotalAmount:         trip.TotalAmount,
	}

	if trip.HasPickupCoords {
		resp.Pickup = &CoordinatesRequest{Lat: trip.PickupLat, Lng: trip.PickupLng}
	}
	if trip.HasDropCoords {
		resp.Drop = &CoordinatesRequest{Lat: trip.DropLat, Lng: trip.DropLng}
	}
	if !trip.StartTime.IsZero() {
		resp.StartTime = trip.StartTime.Format(timeFormat)
	}
	if !trip.EndTime.IsZero() {
		resp.EndTime = trip.EndTime.Format(timeFormat)
	}

	return resp
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	svcReq := service.CreateTripRequest{
		OrganizationID:      req.OrganizationID,
		DriverID:            req.DriverID,
		VehicleID:           req.VehicleID,
		SourcePresetID:      req.SourcePresetID,
		DestinationPresetID: req.DestinationPresetID,
		IsFixedTariff:       req.IsFixedTariff,
	}
	if req.Pickup != nil {
		svcReq.Pickup = &service.Coordinates{Lat: req.Pickup.Lat, Lng: req.Pickup.Lng}
	}
	if req.Drop != nil {
		svcReq.Drop = &service.Coordinates{Lat: req.Drop.Lat, Lng: req.Drop.Lng}
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripResponse(trip))
}

// StartTrip handles POST /v1/trips/:id/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	trip, err := h.tripService.StartTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// EndTrip handles POST /v1/trips/:id/end
func (h *TripHandler) EndTrip(c *gin.Context) {
	result, err := h.tripService.EndTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := tripResponse(result.Trip)
	if result.Invoice != nil {
		resp.Invoice = &InvoiceInfo{
			ID:            result.Invoice.ID,
			InvoiceNumber: result.Invoice.InvoiceNumber,
			Amount:        result.Invoice.Amount,
			Status:        string(result.Invoice.Status),
		}
	}

	respondJSON(c, http.StatusOK, resp)
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// ListTrips handles GET /v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	filter := repository.TripFilter{
		OrganizationID: c.Query("organization_id"),
		DriverID:       c.Query("driver_id"),
		Status:         domain.TripStatus(c.Query("status")),
	}

	trips, err := h.tripService.ListTrips(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, tripResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}
