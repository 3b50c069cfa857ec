package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultReorderLevel applies when an item is created without one.
const DefaultReorderLevel = 10

type Item struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	Manufacturer  *string     `db:"manufacturer" json:"manufacturer,omitempty"`
	StockQuantity int         `db:"stock_quantity" json:"stock_quantity"`
	Unit          *string     `db:"unit" json:"unit,omitempty"`
	BatchNumber   *string     `db:"batch_number" json:"batch_number,omitempty"`
	ExpiryDate    pgtype.Date `db:"expiry_date" json:"expiry_date"`
	ReorderLevel  *int        `db:"reorder_level" json:"reorder_level,omitempty"`
	UnitPrice     *float64    `db:"unit_price" json:"unit_price,omitempty"`
	LowStock      bool        `json:"low_stock"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// IsLowStock reports whether stock has fallen to or below the reorder level.
func IsLowStock(stock, reorderLevel int) bool {
	return stock <= reorderLevel
}

func (i *Item) reorderLevel() int {
	if i.ReorderLevel == nil {
		return DefaultReorderLevel
	}
	return *i.ReorderLevel
}

// derive sets the computed fields.
func (i *Item) derive() {
	i.LowStock = IsLowStock(i.StockQuantity, i.reorderLevel())
}
