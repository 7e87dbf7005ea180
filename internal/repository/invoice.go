package repository

import (
	"context"

	"fleet/internal/domain"
)

// InvoiceRepository defines the persistence operations for invoices.
type InvoiceRepository interface {
	// Create persists a new invoice.
	Create(ctx context.Context, invoice *domain.Invoice) error

	// GetByID retrieves an invoice by ID.
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)

	// List retrieves invoices, optionally filtered by trip, newest first.
	List(ctx context.Context, tripID string) ([]*domain.Invoice, error)
}
