package inventory

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/sheet"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(i *Item) error {
	i.Name = strings.TrimSpace(i.Name)
	if i.Name == "" {
		return apperr.Validation("name is required")
	}
	if i.StockQuantity < 0 {
		return apperr.Validation("stock_quantity must not be negative")
	}
	if i.ReorderLevel == nil {
		lvl := DefaultReorderLevel
		i.ReorderLevel = &lvl
	}
	if *i.ReorderLevel < 0 {
		return apperr.Validation("reorder_level must not be negative")
	}
	if i.UnitPrice != nil && *i.UnitPrice < 0 {
		return apperr.Validation("unit_price must not be negative")
	}
	return nil
}

func (s *Service) CreateItem(ctx context.Context, i *Item) error {
	if err := validate(i); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return err
	}
	i.derive()
	return nil
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, i *Item) error {
	if err := validate(i); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, i); err != nil {
		return err
	}
	i.derive()
	return nil
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, query string, limit, offset int) ([]*Item, int, error) {
	return s.repo.List(ctx, strings.TrimSpace(query), limit, offset)
}

func (s *Service) LowStock(ctx context.Context) ([]*Item, error) {
	return s.repo.LowStock(ctx)
}

// Export writes the full inventory and the low-stock subset as two sheets.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	items, err := s.repo.All(ctx)
	if err != nil {
		return err
	}
	all := itemsTable("Inventory")
	low := itemsTable("Low Stock")
	for _, i := range items {
		all.AddRow(itemRow(i)...)
		if i.LowStock {
			low.AddRow(itemRow(i)...)
		}
	}
	return sheet.Write(w, all, low)
}

func itemsTable(name string) sheet.Table {
	return sheet.Table{
		Name:    name,
		Columns: []string{"Name", "Manufacturer", "Stock", "Unit", "Reorder Level", "Batch", "Expiry", "Unit Price"},
	}
}

func itemRow(i *Item) []interface{} {
	var expiry interface{}
	if i.ExpiryDate.Valid {
		expiry = i.ExpiryDate.Time
	}
	return []interface{}{i.Name, i.Manufacturer, i.StockQuantity, i.Unit, i.reorderLevel(), i.BatchNumber, expiry, i.UnitPrice}
}
