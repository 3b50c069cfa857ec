package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns newest first. A nil patientID lists every prescription.
	List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
}
