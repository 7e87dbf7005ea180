package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleet/internal/repository"
	"fleet/internal/service"
)

// TariffHandler handles HTTP requests for tariff queries and the
// fallback rate setting.
type TariffHandler struct {
	billingService *service.BillingService
}

// NewTariffHandler creates a new TariffHandler.
func NewTariffHandler(billingService *service.BillingService) *TariffHandler {
	return &TariffHandler{billingService: billingService}
}

// FixedTariffResponse is the HTTP response for a fixed tariff probe.
type FixedTariffResponse struct {
	Found         bool    `json:"found"`
	FixedTariffID string  `json:"fixed_tariff_id,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
}

// DistanceQuoteResponse is the HTTP response for a distance rate quote.
type DistanceQuoteResponse struct {
	DistanceKm float64 `json:"distance_km"`
	Amount     float64 `json:"amount"`
}

// FallbackRateRequest is the HTTP request body for updating the rate.
type FallbackRateRequest struct {
	RatePerKm float64 `json:"rate_per_km"`
}

// FallbackRateResponse is the HTTP response for the fallback rate.
type FallbackRateResponse struct {
	RatePerKm float64 `json:"rate_per_km"`
}

// GetFixedTariff handles GET /v1/tariffs/fixed
func (h *TariffHandler) GetFixedTariff(c *gin.Context) {
	organizationID := c.Query("organization_id")
	sourceID := c.Query("source_id")
	destinationID := c.Query("destination_id")

	if organizationID == "" || sourceID == "" || destinationID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "organization_id, source_id and destination_id are required"})
		return
	}

	tariff, err := h.billingService.GetFixedTariff(c.Request.Context(), organizationID, sourceID, destinationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondJSON(c, http.StatusOK, FixedTariffResponse{Found: false})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FixedTariffResponse{
		Found:         true,
		FixedTariffID: tariff.ID,
		Amount:        tariff.Amount,
	})
}

// GetDistanceQuote handles GET /v1/tariffs/distance
func (h *TariffHandler) GetDistanceQuote(c *gin.Context) {
	distanceKm, err := strconv.ParseFloat(c.Query("distance_km"), 64)
	if err != nil || distanceKm < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid distance_km"})
		return
	}

	rate, err := h.billingService.RatePerKm(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DistanceQuoteResponse{
		DistanceKm: distanceKm,
		Amount:     distanceKm * rate,
	})
}

// GetFallbackRate handles GET /v1/tariffs/fallback
func (h *TariffHandler) GetFallbackRate(c *gin.Context) {
	rate, err := h.billingService.RatePerKm(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FallbackRateResponse{RatePerKm: rate})
}

// UpdateFallbackRate handles PUT /v1/tariffs/fallback
func (h *TariffHandler) UpdateFallbackRate(c *gin.Context) {
	var req FallbackRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.RatePerKm <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rate_per_km must be positive"})
		return
	}

	if err := h.billingService.SetRatePerKm(c.Request.Context(), req.RatePerKm); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FallbackRateResponse{RatePerKm: req.RatePerKm})
}
