package labtest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/db"
)

// =========== Catalog Repository ===========

type catalogRepoPG struct{ q db.Querier }

func NewCatalogRepoPG(q db.Querier) CatalogRepository { return &catalogRepoPG{q: q} }

const testCols = `id, name, description, price, created_at`

func scanTest(row pgx.Row) (*Test, error) {
	var t Test
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Price, &t.CreatedAt)
	return &t, err
}

func (r *catalogRepoPG) Create(ctx context.Context, t *Test) error {
	t.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO lab_tests (id, name, description, price) VALUES ($1,$2,$3,$4)
		RETURNING created_at`,
		t.ID, t.Name, t.Description, t.Price,
	).Scan(&t.CreatedAt)
	return db.Translate(err, "create", "lab test")
}

func (r *catalogRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Test, error) {
	t, err := scanTest(r.q.QueryRow(ctx, `SELECT `+testCols+` FROM lab_tests WHERE id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", "lab test")
	}
	return t, nil
}

func (r *catalogRepoPG) Update(ctx context.Context, t *Test) error {
	err := r.q.QueryRow(ctx, `
		UPDATE lab_tests SET name=$2, description=$3, price=$4 WHERE id = $1
		RETURNING created_at`,
		t.ID, t.Name, t.Description, t.Price,
	).Scan(&t.CreatedAt)
	return db.Translate(err, "update", "lab test")
}

func (r *catalogRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM lab_tests WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", "lab test")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lab test")
	}
	return nil
}

func (r *catalogRepoPG) List(ctx context.Context) ([]*Test, error) {
	rows, err := r.q.Query(ctx, `SELECT `+testCols+` FROM lab_tests ORDER BY name`)
	if err != nil {
		return nil, db.Translate(err, "list", "lab test")
	}
	defer rows.Close()
	var items []*Test
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, db.Translate(err, "scan", "lab test")
		}
		items = append(items, t)
	}
	return items, db.Translate(rows.Err(), "list", "lab test")
}

// =========== Order Repository ===========

const orderEntity = "lab test order"

type orderRepoPG struct{ q db.Querier }

func NewOrderRepoPG(q db.Querier) OrderRepository { return &orderRepoPG{q: q} }

const orderCols = `o.id, o.patient_id, o.doctor_id, o.test_id, o.test_date, o.status, o.notes,
	o.report_url, COALESCE(t.name, ''), COALESCE(p.name, ''), COALESCE(d.name, ''),
	o.created_at, o.updated_at`

const orderFrom = ` FROM patient_lab_tests o
	LEFT JOIN lab_tests t ON t.id = o.test_id
	LEFT JOIN patients p ON p.id = o.patient_id
	LEFT JOIN doctors d ON d.id = o.doctor_id`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.PatientID, &o.DoctorID, &o.TestID, &o.TestDate, &o.Status, &o.Notes,
		&o.ReportURL, &o.TestName, &o.PatientName, &o.DoctorName,
		&o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *orderRepoPG) Create(ctx context.Context, o *Order) error {
	o.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO patient_lab_tests (id, patient_id, doctor_id, test_id, test_date, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		o.ID, o.PatientID, o.DoctorID, o.TestID, o.TestDate, o.Status, o.Notes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	return db.Translate(err, "create", orderEntity)
}

func (r *orderRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderCols+orderFrom+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", orderEntity)
	}
	return o, nil
}

func (r *orderRepoPG) Update(ctx context.Context, o *Order) error {
	err := r.q.QueryRow(ctx, `
		UPDATE patient_lab_tests SET patient_id=$2, doctor_id=$3, test_id=$4, test_date=$5,
			status=$6, notes=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING report_url, created_at, updated_at`,
		o.ID, o.PatientID, o.DoctorID, o.TestID, o.TestDate, o.Status, o.Notes,
	).Scan(&o.ReportURL, &o.CreatedAt, &o.UpdatedAt)
	return db.Translate(err, "update", orderEntity)
}

func (r *orderRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM patient_lab_tests WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", orderEntity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(orderEntity)
	}
	return nil
}

func (r *orderRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE patient_lab_tests SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return db.Translate(err, "update status", orderEntity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(orderEntity)
	}
	return nil
}

func (r *orderRepoPG) AttachReport(ctx context.Context, id uuid.UUID, reportURL string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE patient_lab_tests SET report_url = $2, status = $3, updated_at = NOW()
		WHERE id = $1`, id, reportURL, StatusCompleted)
	if err != nil {
		return db.Translate(err, "attach report", orderEntity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(orderEntity)
	}
	return nil
}

func (r *orderRepoPG) List(ctx context.Context, f OrderFilter, limit, offset int) ([]*Order, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND o.patient_id = $%d", idx)
		args = append(args, f.PatientID)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND o.status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Query != "" {
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR t.name ILIKE $%d)", idx, idx)
		args = append(args, "%"+f.Query+"%")
		idx++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+orderFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", orderEntity)
	}

	sql := `SELECT ` + orderCols + orderFrom + where +
		fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)
	items, err := r.query(ctx, sql, args...)
	return items, total, err
}

func (r *orderRepoPG) History(ctx context.Context, patientID uuid.UUID) ([]*Order, error) {
	return r.query(ctx, `SELECT `+orderCols+orderFrom+`
		WHERE o.patient_id = $1 ORDER BY o.test_date DESC, o.created_at DESC`, patientID)
}

func (r *orderRepoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*Order, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Translate(err, "list", orderEntity)
	}
	defer rows.Close()
	var items []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, db.Translate(err, "scan", orderEntity)
		}
		items = append(items, o)
	}
	return items, db.Translate(rows.Err(), "list", orderEntity)
}
