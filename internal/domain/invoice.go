package domain

import "time"

// InvoiceStatus represents the settlement state of an invoice.
// The core only ever creates invoices as pending; settlement
// transitions belong to the billing back office.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
)

// Invoice is created exactly once per completed trip.
type Invoice struct {
	ID            string
	TripID        string
	Amount        float64
	InvoiceNumber string
	Status        InvoiceStatus
	CreatedAt     time.Time
}
