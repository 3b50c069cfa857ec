package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/db"
)

// =========== Payment Repository ===========

const paymentEntity = "payment"

type paymentRepoPG struct{ q db.Querier }

func NewPaymentRepoPG(q db.Querier) PaymentRepository { return &paymentRepoPG{q: q} }

const paymentCols = `pm.id, pm.patient_id, pm.amount, pm.payment_method, pm.status,
	pm.payment_reference, pm.payment_notes, pm.payment_date, COALESCE(p.name, ''),
	pm.created_at, pm.updated_at`

const paymentFrom = ` FROM payments pm LEFT JOIN patients p ON p.id = pm.patient_id`

func scanPayment(row pgx.Row, extra ...interface{}) (*Payment, error) {
	var p Payment
	dest := []interface{}{&p.ID, &p.PatientID, &p.Amount, &p.Method, &p.Status,
		&p.Reference, &p.Notes, &p.PaymentDate, &p.PatientName, &p.CreatedAt, &p.UpdatedAt}
	err := row.Scan(append(dest, extra...)...)
	return &p, err
}

func (r *paymentRepoPG) Create(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO payments (id, patient_id, amount, payment_method, status,
			payment_reference, payment_notes, payment_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		p.ID, p.PatientID, p.Amount, p.Method, p.Status, p.Reference, p.Notes, p.PaymentDate,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Translate(err, "create", paymentEntity)
}

func (r *paymentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentCols+paymentFrom+` WHERE pm.id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", paymentEntity)
	}
	return p, nil
}

func (r *paymentRepoPG) Update(ctx context.Context, p *Payment) (string, error) {
	var prev string
	err := r.q.QueryRow(ctx, `
		WITH prev AS (
			SELECT id, status FROM payments WHERE id = $1 FOR UPDATE
		)
		UPDATE payments SET patient_id=$2, amount=$3, payment_method=$4, status=$5,
			payment_reference=$6, payment_notes=$7, payment_date=$8, updated_at=NOW()
		FROM prev
		WHERE payments.id = prev.id
		RETURNING prev.status, payments.created_at, payments.updated_at`,
		p.ID, p.PatientID, p.Amount, p.Method, p.Status, p.Reference, p.Notes, p.PaymentDate,
	).Scan(&prev, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return "", db.Translate(err, "update", paymentEntity)
	}
	return prev, nil
}

func (r *paymentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", paymentEntity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(paymentEntity)
	}
	return nil
}

func (r *paymentRepoPG) List(ctx context.Context, f PaymentFilter, limit, offset int) ([]*Payment, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND pm.patient_id = $%d", idx)
		args = append(args, f.PatientID)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND pm.status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Method != "" {
		where += fmt.Sprintf(" AND pm.payment_method = $%d", idx)
		args = append(args, f.Method)
		idx++
	}
	if f.Query != "" {
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR pm.payment_reference ILIKE $%d OR pm.status ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+f.Query+"%")
		idx++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+paymentFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", paymentEntity)
	}

	sql := `SELECT ` + paymentCols + paymentFrom + where +
		fmt.Sprintf(" ORDER BY pm.created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, db.Translate(err, "list", paymentEntity)
	}
	defer rows.Close()
	var items []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, db.Translate(err, "scan", paymentEntity)
		}
		items = append(items, p)
	}
	return items, total, db.Translate(rows.Err(), "list", paymentEntity)
}

func (r *paymentRepoPG) All(ctx context.Context) ([]*Payment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+paymentCols+paymentFrom+` ORDER BY pm.payment_date DESC, pm.created_at DESC`)
	if err != nil {
		return nil, db.Translate(err, "list", paymentEntity)
	}
	defer rows.Close()
	var items []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, db.Translate(err, "scan", paymentEntity)
		}
		items = append(items, p)
	}
	return items, db.Translate(rows.Err(), "list", paymentEntity)
}

func (r *paymentRepoPG) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0)::float8,
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0)::float8,
			COUNT(*) FILTER (WHERE payment_method = 'cash'),
			COUNT(*) FILTER (WHERE payment_method = 'online')
		FROM payments`,
	).Scan(&s.TotalPayments, &s.CompletedAmount, &s.PendingAmount, &s.CashPayments, &s.OnlinePayments)
	if err != nil {
		return nil, db.Translate(err, "stats", paymentEntity)
	}
	return &s, nil
}

func (r *paymentRepoPG) History(ctx context.Context, patientID uuid.UUID) ([]*HistoryEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentCols+`, inv.invoice_number`+paymentFrom+`
		LEFT JOIN LATERAL (
			SELECT invoice_number FROM invoices
			WHERE payment_id = pm.id ORDER BY created_at DESC LIMIT 1
		) inv ON TRUE
		WHERE pm.patient_id = $1
		ORDER BY pm.payment_date DESC, pm.created_at DESC`, patientID)
	if err != nil {
		return nil, db.Translate(err, "history", paymentEntity)
	}
	defer rows.Close()
	var items []*HistoryEntry
	for rows.Next() {
		var number *string
		p, err := scanPayment(rows, &number)
		if err != nil {
			return nil, db.Translate(err, "scan", paymentEntity)
		}
		items = append(items, &HistoryEntry{Payment: *p, InvoiceNumber: number})
	}
	return items, db.Translate(rows.Err(), "history", paymentEntity)
}

// =========== Invoice Repository ===========

const invoiceEntity = "invoice"

type invoiceRepoPG struct{ q db.Querier }

func NewInvoiceRepoPG(q db.Querier) InvoiceRepository { return &invoiceRepoPG{q: q} }

const invoiceCols = `i.id, i.payment_id, i.invoice_number, i.pdf_url, i.created_at,
	pm.amount, pm.payment_date, pm.status, pm.patient_id, COALESCE(p.name, '')`

const invoiceFrom = ` FROM invoices i
	JOIN payments pm ON pm.id = i.payment_id
	LEFT JOIN patients p ON p.id = pm.patient_id`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.PaymentID, &inv.InvoiceNumber, &inv.PdfURL, &inv.CreatedAt,
		&inv.Amount, &inv.PaymentDate, &inv.Status, &inv.PatientID, &inv.PatientName)
	return &inv, err
}

func (r *invoiceRepoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoices (id, payment_id, invoice_number, pdf_url)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at`,
		inv.ID, inv.PaymentID, inv.InvoiceNumber, inv.PdfURL,
	).Scan(&inv.CreatedAt)
	return db.Translate(err, "create", invoiceEntity)
}

func (r *invoiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceCols+invoiceFrom+` WHERE i.id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", invoiceEntity)
	}
	return inv, nil
}

func (r *invoiceRepoPG) List(ctx context.Context, query string, limit, offset int) ([]*Invoice, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1
	if query != "" {
		where += fmt.Sprintf(" AND (i.invoice_number ILIKE $%d OR p.name ILIKE $%d)", idx, idx)
		args = append(args, "%"+query+"%")
		idx++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+invoiceFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", invoiceEntity)
	}

	sql := `SELECT ` + invoiceCols + invoiceFrom + where +
		fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, db.Translate(err, "list", invoiceEntity)
	}
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, db.Translate(err, "scan", invoiceEntity)
		}
		items = append(items, inv)
	}
	return items, total, db.Translate(rows.Err(), "list", invoiceEntity)
}
