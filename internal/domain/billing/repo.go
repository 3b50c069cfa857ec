package billing

import (
	"context"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// Update saves p and returns the status the row held immediately before
	// this write. Concurrent updates of one payment are serialized.
	Update(ctx context.Context, p *Payment) (prevStatus string, err error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f PaymentFilter, limit, offset int) ([]*Payment, int, error)
	// All returns every payment, newest first, for exports.
	All(ctx context.Context) ([]*Payment, error)
	Stats(ctx context.Context) (*Stats, error)
	// History returns the patient's payments by payment date, newest first,
	// each with its invoice number when one exists.
	History(ctx context.Context, patientID uuid.UUID) ([]*HistoryEntry, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, query string, limit, offset int) ([]*Invoice, int, error)
}
