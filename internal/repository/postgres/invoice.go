package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// InvoiceRepository is a PostgreSQL implementation of repository.InvoiceRepository.
type InvoiceRepository struct {
	q Querier
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository.
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{q: db}
}

// NewInvoiceRepositoryWithTx creates an invoice repository using a transaction.
func NewInvoiceRepositoryWithTx(tx *sql.Tx) *InvoiceRepository {
	return &InvoiceRepository{q: tx}
}

// Create persists a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (id, trip_id, amount, invoice_number, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		invoice.ID,
		invoice.TripID,
		invoice.Amount,
		invoice.InvoiceNumber,
		invoice.Status,
		invoice.CreatedAt,
	)

	return err
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	query := `
		SELECT id, trip_id, amount, invoice_number, status, created_at
		FROM invoices WHERE id = $1
	`

	var invoice domain.Invoice
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&invoice.ID,
		&invoice.TripID,
		&invoice.Amount,
		&invoice.InvoiceNumber,
		&invoice.Status,
		&invoice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &invoice, nil
}

// List retrieves invoices, optionally filtered by trip, newest first.
func (r *InvoiceRepository) List(ctx context.Context, tripID string) ([]*domain.Invoice, error) {
	query := `
		SELECT id, trip_id, amount, invoice_number, status, created_at
		FROM invoices
		WHERE ($1 = '' OR trip_id = $1)
		ORDER BY created_at DESC LIMIT 200
	`

	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*domain.Invoice
	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(
			&invoice.ID,
			&invoice.TripID,
			&invoice.Amount,
			&invoice.InvoiceNumber,
			&invoice.Status,
			&invoice.CreatedAt,
		); err != nil {
			return nil, err
		}
		invoices = append(invoices, &invoice)
	}

	return invoices, rows.Err()
}

// Ensure InvoiceRepository implements repository.InvoiceRepository.
var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)
