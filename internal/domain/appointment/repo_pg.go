package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/db"
)

const entity = "appointment"

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

const apptCols = `a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
	a.type, a.status, a.notes, COALESCE(p.name, ''), COALESCE(d.name, ''), a.created_at, a.updated_at`

const apptFrom = ` FROM appointments a
	LEFT JOIN patients p ON p.id = a.patient_id
	LEFT JOIN doctors d ON d.id = a.doctor_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
		&a.Type, &a.Status, &a.Notes, &a.PatientName, &a.DoctorName, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, appointment_time, type, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Type, a.Status, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return db.Translate(err, "create", entity)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.q.QueryRow(ctx, `SELECT `+apptCols+apptFrom+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", entity)
	}
	return a, nil
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	err := r.q.QueryRow(ctx, `
		UPDATE appointments SET patient_id=$2, doctor_id=$3, appointment_date=$4, appointment_time=$5,
			type=$6, status=$7, notes=$8, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Type, a.Status, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return db.Translate(err, "update", entity)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Date.Valid {
		where += fmt.Sprintf(" AND a.appointment_date = $%d", idx)
		args = append(args, f.Date)
		idx++
	}
	if f.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND a.patient_id = $%d", idx)
		args = append(args, f.PatientID)
		idx++
	}
	if f.DoctorID != uuid.Nil {
		where += fmt.Sprintf(" AND a.doctor_id = $%d", idx)
		args = append(args, f.DoctorID)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND a.status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM appointments a`+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", entity)
	}

	sql := `SELECT ` + apptCols + apptFrom + where +
		fmt.Sprintf(" ORDER BY a.appointment_date, a.appointment_time LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, db.Translate(err, "list", entity)
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, db.Translate(err, "scan", entity)
		}
		items = append(items, a)
	}
	return items, total, db.Translate(rows.Err(), "list", entity)
}
