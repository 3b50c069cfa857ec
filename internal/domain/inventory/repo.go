package inventory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, i *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query string, limit, offset int) ([]*Item, int, error)
	// All returns every item ordered by name.
	All(ctx context.Context) ([]*Item, error)
	// LowStock returns items whose stock is at or below their reorder level.
	LowStock(ctx context.Context) ([]*Item, error)
}
