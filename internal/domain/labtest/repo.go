package labtest

import (
	"context"

	"github.com/google/uuid"
)

type CatalogRepository interface {
	Create(ctx context.Context, t *Test) error
	GetByID(ctx context.Context, id uuid.UUID) (*Test, error)
	Update(ctx context.Context, t *Test) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns the catalog ordered by name.
	List(ctx context.Context) ([]*Test, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// AttachReport stores the report reference and marks the order completed.
	AttachReport(ctx context.Context, id uuid.UUID, reportURL string) error
	List(ctx context.Context, f OrderFilter, limit, offset int) ([]*Order, int, error)
	// History returns every order of the patient by test date, newest first.
	History(ctx context.Context, patientID uuid.UUID) ([]*Order, error)
}
