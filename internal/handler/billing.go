package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// BillingHandler handles HTTP requests for invoices.
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// InvoiceResponse is the HTTP response for invoice data.
type InvoiceResponse struct {
	ID            string  `json:"id"`
	TripID        string  `json:"trip_id"`
	Amount        float64 `json:"amount"`
	InvoiceNumber string  `json:"invoice_number"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

func invoiceResponse(invoice *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            invoice.ID,
		TripID:        invoice.TripID,
		Amount:        invoice.Amount,
		InvoiceNumber: invoice.InvoiceNumber,
		Status:        string(invoice.Status),
		CreatedAt:     invoice.CreatedAt.Format(timeFormat),
	}
}

// ListInvoices handles GET /v1/billing/invoices
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.billingService.ListInvoices(c.Request.Context(), c.Query("trip_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		response = append(response, invoiceResponse(invoice))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetInvoice handles GET /v1/billing/invoices/:id
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.billingService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, invoiceResponse(invoice))
}

// GenerateInvoice handles POST /v1/billing/generate/:trip_id
func (h *BillingHandler) GenerateInvoice(c *gin.Context) {
	invoice, err := h.billingService.RegenerateInvoice(c.Request.Context(), c.Param("trip_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, invoiceResponse(invoice))
}
