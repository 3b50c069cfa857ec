package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/db"
)

const entity = "inventory item"

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

const itemCols = `id, name, manufacturer, stock_quantity, unit, batch_number, expiry_date,
	reorder_level, unit_price, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var i Item
	var reorder int
	err := row.Scan(&i.ID, &i.Name, &i.Manufacturer, &i.StockQuantity, &i.Unit, &i.BatchNumber,
		&i.ExpiryDate, &reorder, &i.UnitPrice, &i.CreatedAt, &i.UpdatedAt)
	i.ReorderLevel = &reorder
	i.derive()
	return &i, err
}

func (r *repoPG) Create(ctx context.Context, i *Item) error {
	i.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory (id, name, manufacturer, stock_quantity, unit, batch_number,
			expiry_date, reorder_level, unit_price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		i.ID, i.Name, i.Manufacturer, i.StockQuantity, i.Unit, i.BatchNumber,
		i.ExpiryDate, i.reorderLevel(), i.UnitPrice,
	).Scan(&i.CreatedAt, &i.UpdatedAt)
	return db.Translate(err, "create", entity)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	i, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemCols+` FROM inventory WHERE id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", entity)
	}
	return i, nil
}

func (r *repoPG) Update(ctx context.Context, i *Item) error {
	err := r.q.QueryRow(ctx, `
		UPDATE inventory SET name=$2, manufacturer=$3, stock_quantity=$4, unit=$5,
			batch_number=$6, expiry_date=$7, reorder_level=$8, unit_price=$9, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		i.ID, i.Name, i.Manufacturer, i.StockQuantity, i.Unit,
		i.BatchNumber, i.ExpiryDate, i.reorderLevel(), i.UnitPrice,
	).Scan(&i.CreatedAt, &i.UpdatedAt)
	return db.Translate(err, "update", entity)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, query string, limit, offset int) ([]*Item, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1
	if query != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR manufacturer ILIKE $%d OR batch_number ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+query+"%")
		idx++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory`+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", entity)
	}

	sql := `SELECT ` + itemCols + ` FROM inventory` + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)
	items, err := r.query(ctx, sql, args...)
	return items, total, err
}

func (r *repoPG) All(ctx context.Context) ([]*Item, error) {
	return r.query(ctx, `SELECT `+itemCols+` FROM inventory ORDER BY name`)
}

func (r *repoPG) LowStock(ctx context.Context) ([]*Item, error) {
	return r.query(ctx, `SELECT `+itemCols+` FROM inventory
		WHERE stock_quantity <= reorder_level ORDER BY stock_quantity, name`)
}

func (r *repoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*Item, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Translate(err, "list", entity)
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, db.Translate(err, "scan", entity)
		}
		items = append(items, i)
	}
	return items, db.Translate(rows.Err(), "list", entity)
}
