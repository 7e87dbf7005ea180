package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/repository"
	"fleet/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidOrganizationID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrMissingRoute):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrTripNotApplicable),
		errors.Is(err, service.ErrInvoiceGenerationInProgress):
		return http.StatusConflict

	// Default to internal server error (infrastructure failures).
	default:
		return http.StatusInternalServerError
	}
}
